package extract

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/careerguide/careerguide/errors"
)

func TestExtractPlainText(t *testing.T) {
	text := "Jane Doe\nSoftware Engineer\n10 years of Go experience"
	got, err := Extract("resume.txt", strings.NewReader(text))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if got != text {
		t.Errorf("expected text unchanged, got %q", got)
	}
}

func TestExtractInvalidUTF8(t *testing.T) {
	_, err := Extract("resume.txt", bytes.NewReader([]byte{0xff, 0xfe, 0x00, 0x9f}))
	if err == nil {
		t.Fatal("expected decode error for invalid UTF-8")
	}
	if !errors.Is(err, errors.ErrCodeDecode) {
		t.Errorf("expected DECODE code, got %v", err)
	}
	if !errors.IsCategory(err, errors.CategoryClient) {
		t.Error("decode errors should be client errors")
	}
}

func TestExtractPDFPages(t *testing.T) {
	doc := buildPDF(t, "Page 1", "Page 2", "Page 3")
	got, err := Extract("resume.pdf", bytes.NewReader(doc))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	want := "Page 1\nPage 2\nPage 3\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestExtractMalformedPDF(t *testing.T) {
	_, err := Extract("resume.pdf", strings.NewReader("not a pdf at all"))
	if err == nil {
		t.Fatal("expected extraction error for malformed PDF")
	}
	if !errors.Is(err, errors.ErrCodeExtraction) {
		t.Errorf("expected EXTRACTION code, got %v", err)
	}
}

func TestExtractCaseInsensitiveExtension(t *testing.T) {
	doc := buildPDF(t, "Hello")
	got, err := Extract("RESUME.PDF", bytes.NewReader(doc))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if got != "Hello\n" {
		t.Errorf("expected %q, got %q", "Hello\n", got)
	}
}

// buildPDF assembles a minimal multi-page PDF with one text line per page.
// Object offsets in the xref table are computed while writing so the result
// is a structurally valid document.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()

	n := len(pages)
	// Object numbering: 1 catalog, 2 pages root, then per page i:
	// 2+2i-1 page object, 2+2i content stream. Font is the last object.
	fontObj := 2 + 2*n + 1
	totalObjs := fontObj

	var buf bytes.Buffer
	offsets := make([]int, totalObjs+1)

	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	buf.WriteString("%PDF-1.4\n")

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, n)
	for i := 0; i < n; i++ {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))

	for i, text := range pages {
		pageNum := 3 + 2*i
		contentNum := pageNum + 1
		writeObj(pageNum, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			fontObj, contentNum))
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		writeObj(contentNum, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	writeObj(fontObj, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", totalObjs+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= totalObjs; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", totalObjs+1, xrefStart)

	return buf.Bytes()
}
