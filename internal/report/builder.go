// Package report lays out the per-agent narrative and renders it through a
// format-specific Builder.
package report

import (
	"io"

	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

// Builder receives the document structure in reading order.
type Builder interface {
	Format() domain.ReportFormat
	Title(text string)
	Heading(text string, level int)
	Paragraph(text string)
	// Line adds a tab-indented paragraph.
	Line(text string)
	// Image embeds a PNG scaled to the given width in inches.
	Image(png []byte, widthInches float64) error
	PageBreak()
	Render(w io.Writer) error
}

// BuilderFactory creates an empty Builder for each generation.
type BuilderFactory func() Builder
