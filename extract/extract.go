// Package extract converts uploaded resume documents into plain text.
//
// Files with a .pdf extension are parsed page by page; anything else is
// treated as raw UTF-8 text. Extraction never touches the vector store.
package extract

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/careerguide/careerguide/errors"
)

// Extract reads the uploaded file and returns its plain-text content.
// The filename's extension selects the PDF or raw-text path.
func Extract(filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrCodeExtraction, "failed to read upload",
			errors.WithMetadata("filename", filename))
	}

	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return extractPDF(filename, data)
	}
	return decodeText(filename, data)
}

// extractPDF concatenates per-page text with a trailing newline after each
// page. A page yielding no text is an error: silently inserting empty text
// would hide an unreadable (e.g. scanned-image) resume from the caller.
func extractPDF(filename string, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrCodeExtraction, "failed to open PDF",
			errors.WithMetadata("filename", filename))
	}

	var sb strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			return "", errors.Newf(errors.ErrCodeExtraction, "page %d of %s is unreadable", i, filename)
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", errors.WrapWithCode(err, errors.ErrCodeExtraction, "failed to extract page text",
				errors.WithMetadata("filename", filename))
		}
		// The parser emits a newline before each page's first text row;
		// strip the page's edge newlines so each page contributes exactly
		// one trailing newline.
		text = strings.Trim(text, "\n")
		if strings.TrimSpace(text) == "" {
			return "", errors.Newf(errors.ErrCodeExtraction, "page %d of %s contains no extractable text", i, filename)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// decodeText validates that the raw bytes are UTF-8 text.
func decodeText(filename string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.Newf(errors.ErrCodeDecode, "%s is not valid UTF-8 text", filename)
	}
	return string(data), nil
}
