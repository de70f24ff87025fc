package domain

import (
	"fmt"
	"strings"
)

// ReportFormat defines the format of a generated report
type ReportFormat string

const (
	ReportFormatDOCX ReportFormat = "docx"
	ReportFormatPDF  ReportFormat = "pdf"
	ReportFormatHTML ReportFormat = "html"
	ReportFormatCSV  ReportFormat = "csv"
)

// ReportBaseName is the download name used for every format.
const ReportBaseName = "Reporte_Tiempos_Cobradores"

// ParseReportFormat accepts a format name case-insensitively.
func ParseReportFormat(s string) (ReportFormat, error) {
	switch f := ReportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case ReportFormatDOCX, ReportFormatPDF, ReportFormatHTML, ReportFormatCSV:
		return f, nil
	case "":
		return ReportFormatDOCX, nil
	default:
		return "", fmt.Errorf("unsupported report format %q", s)
	}
}

// Extension returns the file extension including the dot.
func (f ReportFormat) Extension() string {
	return "." + string(f)
}

// FileName returns the download name for the format.
func (f ReportFormat) FileName() string {
	return ReportBaseName + f.Extension()
}

// ContentType returns the MIME type served for the format.
func (f ReportFormat) ContentType() string {
	switch f {
	case ReportFormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ReportFormatPDF:
		return "application/pdf"
	case ReportFormatHTML:
		return "text/html; charset=utf-8"
	case ReportFormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
