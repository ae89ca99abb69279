package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"docchat/internal/model"
)

// Package extractor normalizes stored document bytes into plain text.
// All parsing happens from in-memory buffers; nothing is written to disk.

// ErrInvalidUTF8 is returned when a text document is not valid UTF-8.
// It propagates to the caller rather than substituting replacement runes.
var ErrInvalidUTF8 = errors.New("invalid utf-8 byte sequence")

// Extract converts raw document bytes of the given type into a single text
// string. Unsupported types yield empty text without error; callers that
// attach files with unknown extensions simply get no context from them.
func Extract(data []byte, docType model.DocType) (string, error) {
	switch docType {
	case model.DocTypeTxt:
		return extractTxt(data)
	case model.DocTypePDF:
		return extractPDF(data)
	case model.DocTypeDocx:
		return extractDocx(data)
	}
	return "", nil
}

func extractTxt(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrInvalidUTF8
	}
	return string(data), nil
}

// extractPDF concatenates the plain-text layer of every page in page order.
// Pages with no text layer (scanned images) contribute nothing; a page that
// fails to parse is skipped rather than failing the whole document.
func extractPDF(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// docxBody mirrors the paragraph layer of word/document.xml. Only direct body
// paragraphs are captured; tables, headers and footers are not extracted.
type docxBody struct {
	Paragraphs []docxParagraph `xml:"body>p"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Texts []string `xml:"t"`
}

// extractDocx unzips the document in memory and joins paragraph texts with a
// single newline, in document order.
func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var docXML io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docXML, err = f.Open()
			if err != nil {
				return "", fmt.Errorf("open docx document part: %w", err)
			}
			break
		}
	}
	if docXML == nil {
		return "", errors.New("docx has no word/document.xml")
	}
	defer docXML.Close()

	var body docxBody
	if err := xml.NewDecoder(docXML).Decode(&body); err != nil {
		return "", fmt.Errorf("parse docx document part: %w", err)
	}

	paragraphs := make([]string, 0, len(body.Paragraphs))
	for _, p := range body.Paragraphs {
		var sb strings.Builder
		for _, r := range p.Runs {
			for _, t := range r.Texts {
				sb.WriteString(t)
			}
		}
		paragraphs = append(paragraphs, sb.String())
	}
	return strings.Join(paragraphs, "\n"), nil
}
