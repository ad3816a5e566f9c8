// Package extractor pulls plain text out of uploaded study materials.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupported is returned for file types the extractor cannot handle.
	ErrUnsupported = errors.New("unsupported file format")
	// ErrNoText is returned when a file yields no extractable text,
	// typically a corrupt or scanned PDF.
	ErrNoText = errors.New("no extractable text")
)

// Page is one unit of extracted text. For formats without pages
// (txt, docx, md) the whole document is a single page; spreadsheet
// sheets and slides are numbered like pages.
type Page struct {
	Number int
	Text   string
}

var supportedExtensions = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".md":   true,
	".docx": true,
	".xlsx": true,
	".ods":  true,
}

// Supported reports whether the filename has an extension the
// extractor can handle.
func Supported(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Extract dispatches on the file extension and returns the cleaned
// pages of text. Returns ErrUnsupported for unknown extensions and
// ErrNoText when nothing usable was extracted.
func Extract(data []byte, filename string) ([]Page, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var (
		pages []Page
		err   error
	)
	switch ext {
	case ".pdf":
		pages, err = extractPDF(data)
	case ".txt":
		pages = []Page{{Number: 1, Text: string(data)}}
	case ".md":
		pages, err = extractMarkdown(data)
	case ".docx":
		pages, err = extractDOCX(data)
	case ".xlsx":
		pages, err = extractXLSX(data)
	case ".ods":
		pages, err = extractODS(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}
	if err != nil {
		return nil, err
	}

	cleaned := make([]Page, 0, len(pages))
	for _, p := range pages {
		text := Clean(p.Text)
		if text == "" {
			continue
		}
		cleaned = append(cleaned, Page{Number: p.Number, Text: text})
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoText, filename)
	}
	return cleaned, nil
}

func extractPDF(data []byte) ([]Page, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var pages []Page
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, Page{Number: i, Text: text})
	}
	return pages, nil
}

func extractDOCX(data []byte) ([]Page, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()
	var text strings.Builder
	for _, paragraph := range strings.Split(content, "\n") {
		paragraph = stripXMLTags(paragraph)
		if strings.TrimSpace(paragraph) == "" {
			continue
		}
		text.WriteString(paragraph)
		text.WriteString("\n")
	}
	return []Page{{Number: 1, Text: text.String()}}, nil
}

func extractXLSX(data []byte) ([]Page, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}

	var pages []Page
	for sheetNum, sheet := range f.Sheets {
		var text strings.Builder
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				text.WriteString(cell.String() + "\t")
			}
			text.WriteString("\n")
		}
		pages = append(pages, Page{Number: sheetNum + 1, Text: text.String()})
	}
	return pages, nil
}

func extractODS(data []byte) ([]Page, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open ods: %w", err)
	}
	defer f.Close()

	var pages []Page
	for sheetNum, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		var text strings.Builder
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheetName))
		for _, row := range rows {
			for _, cell := range row {
				text.WriteString(cell + "\t")
			}
			text.WriteString("\n")
		}
		pages = append(pages, Page{Number: sheetNum + 1, Text: text.String()})
	}
	return pages, nil
}

func stripXMLTags(s string) string {
	var text strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			text.WriteRune(r)
		}
	}
	return text.String()
}
