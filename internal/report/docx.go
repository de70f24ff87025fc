package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"baliance.com/gooxml/common"
	"baliance.com/gooxml/document"
	"baliance.com/gooxml/measurement"
	"baliance.com/gooxml/schema/soo/wml"

	"github.com/Galuis-18/cobra-gestiones/pkg/contracts/domain"
)

// DocxBuilder writes a Word document.
//
// Charts are staged under a scratch directory until the document is saved,
// since images are read from disk on Save. Render or Close removes it.
type DocxBuilder struct {
	doc     *document.Document
	scratch string
	images  int
}

// NewDocxBuilder creates a builder backed by an empty document.
func NewDocxBuilder() Builder {
	return &DocxBuilder{doc: document.New()}
}

func (b *DocxBuilder) Format() domain.ReportFormat { return domain.ReportFormatDOCX }

func (b *DocxBuilder) Title(text string) {
	p := b.doc.AddParagraph()
	p.SetStyle("Title")
	p.AddRun().AddText(text)
}

func (b *DocxBuilder) Heading(text string, level int) {
	p := b.doc.AddParagraph()
	p.SetStyle(fmt.Sprintf("Heading%d", level))
	p.AddRun().AddText(text)
}

func (b *DocxBuilder) Paragraph(text string) {
	b.doc.AddParagraph().AddRun().AddText(text)
}

func (b *DocxBuilder) Line(text string) {
	run := b.doc.AddParagraph().AddRun()
	run.AddTab()
	run.AddText(text)
}

func (b *DocxBuilder) Image(png []byte, widthInches float64) error {
	path, err := b.stage(png)
	if err != nil {
		return err
	}
	img, err := common.ImageFromFile(path)
	if err != nil {
		return fmt.Errorf("failed to decode chart: %w", err)
	}
	ref, err := b.doc.AddImage(img)
	if err != nil {
		return fmt.Errorf("failed to add chart: %w", err)
	}
	inl, err := b.doc.AddParagraph().AddRun().AddDrawingInline(ref)
	if err != nil {
		return fmt.Errorf("failed to place chart: %w", err)
	}

	width := measurement.Distance(widthInches) * measurement.Inch
	inl.SetSize(width, ref.RelativeHeight(width))
	return nil
}

// stage writes png into the scratch directory and returns its path.
func (b *DocxBuilder) stage(png []byte) (string, error) {
	if b.scratch == "" {
		dir, err := os.MkdirTemp("", "gestiones-docx-*")
		if err != nil {
			return "", fmt.Errorf("failed to create chart directory: %w", err)
		}
		b.scratch = dir
	}
	b.images++
	path := filepath.Join(b.scratch, fmt.Sprintf("chart%d.png", b.images))
	if err := os.WriteFile(path, png, 0600); err != nil {
		return "", fmt.Errorf("failed to stage chart: %w", err)
	}
	return path, nil
}

func (b *DocxBuilder) PageBreak() {
	run := b.doc.AddParagraph().AddRun()
	ic := wml.NewEG_RunInnerContent()
	ic.Br = wml.NewCT_Br()
	ic.Br.TypeAttr = wml.ST_BrTypePage
	run.X().EG_RunInnerContent = append(run.X().EG_RunInnerContent, ic)
}

func (b *DocxBuilder) Render(w io.Writer) error {
	defer b.Close()
	if err := b.doc.Save(w); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// Close removes staged charts. It is safe to call more than once.
func (b *DocxBuilder) Close() error {
	if b.scratch == "" {
		return nil
	}
	err := os.RemoveAll(b.scratch)
	b.scratch = ""
	return err
}
