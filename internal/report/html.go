package report

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"io"

	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

type blockKind int

const (
	blockTitle blockKind = iota
	blockHeading
	blockParagraph
	blockLine
	blockImage
	blockPageBreak
)

type block struct {
	Kind  blockKind
	Text  string
	Level int
	Src   template.URL
	Width string
}

// HTMLBuilder writes a single self-contained HTML page with inline images.
type HTMLBuilder struct {
	title  string
	blocks []block
}

// NewHTMLBuilder creates an empty HTML builder.
func NewHTMLBuilder() Builder {
	return &HTMLBuilder{}
}

func (b *HTMLBuilder) Format() domain.ReportFormat { return domain.ReportFormatHTML }

func (b *HTMLBuilder) Title(text string) {
	if b.title == "" {
		b.title = text
	}
	b.blocks = append(b.blocks, block{Kind: blockTitle, Text: text})
}

func (b *HTMLBuilder) Heading(text string, level int) {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	b.blocks = append(b.blocks, block{Kind: blockHeading, Text: text, Level: level})
}

func (b *HTMLBuilder) Paragraph(text string) {
	b.blocks = append(b.blocks, block{Kind: blockParagraph, Text: text})
}

func (b *HTMLBuilder) Line(text string) {
	b.blocks = append(b.blocks, block{Kind: blockLine, Text: text})
}

func (b *HTMLBuilder) Image(png []byte, widthInches float64) error {
	if len(png) == 0 {
		return fmt.Errorf("empty chart image")
	}
	b.blocks = append(b.blocks, block{
		Kind:  blockImage,
		Src:   template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)),
		Width: fmt.Sprintf("%.2fin", widthInches),
	})
	return nil
}

func (b *HTMLBuilder) PageBreak() {
	b.blocks = append(b.blocks, block{Kind: blockPageBreak})
}

func (b *HTMLBuilder) Render(w io.Writer) error {
	data := struct {
		Title  string
		Blocks []block
	}{b.title, b.blocks}
	if err := htmlTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render html report: %w", err)
	}
	return nil
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"heading": func(level int, text string) template.HTML {
		return template.HTML(fmt.Sprintf("<h%d>%s</h%d>", level, template.HTMLEscapeString(text), level))
	},
}).Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Calibri, Arial, sans-serif; max-width: 8.5in; margin: 0 auto; padding: 0.5in; color: #222; }
h1.title { font-size: 26pt; color: #17365d; border-bottom: 1px solid #4f81bd; }
p.line { margin: 2pt 0 2pt 0.5in; }
img { display: block; margin: 8pt 0; }
.page-break { page-break-after: always; break-after: page; }
</style>
</head>
<body>
{{- range .Blocks}}
{{- if eq .Kind 0}}
<h1 class="title">{{.Text}}</h1>
{{- else if eq .Kind 1}}
{{heading .Level .Text}}
{{- else if eq .Kind 2}}
<p>{{.Text}}</p>
{{- else if eq .Kind 3}}
<p class="line">{{.Text}}</p>
{{- else if eq .Kind 4}}
<img src="{{.Src}}" style="width: {{.Width}}" alt="">
{{- else if eq .Kind 5}}
<div class="page-break"></div>
{{- end}}
{{- end}}
</body>
</html>
`))
