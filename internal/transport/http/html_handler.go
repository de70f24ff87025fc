package http

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed web/index.html
var webFS embed.FS

var indexTemplate = template.Must(template.ParseFS(webFS, "web/index.html"))

// FormatOption is one radio button on the upload form.
type FormatOption struct {
	Value   string
	Label   string
	Checked bool
}

// DefaultFormatOptions lists the downloads offered by the form.
func DefaultFormatOptions() []FormatOption {
	return []FormatOption{
		{Value: "docx", Label: "Word (.docx)", Checked: true},
		{Value: "pdf", Label: "PDF (.pdf)"},
		{Value: "html", Label: "HTML (.html)"},
		{Value: "csv", Label: "Resumen CSV (.csv)"},
	}
}

// IndexPage holds the values rendered into the upload form.
type IndexPage struct {
	Version     string
	MaxUploadMB int
	Formats     []FormatOption
}

// ServeIndex serves the upload form.
func ServeIndex(page IndexPage, logger *slog.Logger) http.HandlerFunc {
	if len(page.Formats) == 0 {
		page.Formats = DefaultFormatOptions()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTemplate.Execute(w, page); err != nil {
			logger.ErrorContext(r.Context(), "failed to render index page", slog.String("error", err.Error()))
			http.Error(w, "Error rendering page", http.StatusInternalServerError)
		}
	}
}
