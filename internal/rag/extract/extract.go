package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"

	"github.com/anvesht/ragline/pkg/logx"
)

// Page is one extracted page of a source document. Formats without page
// structure come back as a single page.
type Page struct {
	Number  int
	Content string
}

var logger = logx.NewLogger("Document Extraction")

// DocTypeFor maps a file name to the document type recorded in chunk
// metadata. Empty string means the format is unsupported.
func DocTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "pdf"
	case ".docx", ".txt", ".rtf", ".odt":
		return "text"
	default:
		return ""
	}
}

// Text extracts the raw text of the file at path, per page where the
// format supports it.
func Text(path string) ([]Page, error) {
	switch DocTypeFor(path) {
	case "pdf":
		return extractPDF(path)
	case "text":
		return extractPlain(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

func extractPDF(path string) ([]Page, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []Page
	numPages := f.NumPage()
	logger.Debug("extractPDF", "pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// A broken page should not sink the whole document.
			logger.Error("Error parsing page content", "page", i, "error", err)
			continue
		}
		pages = append(pages, Page{Number: i, Content: content})
	}
	return pages, nil
}

func extractPlain(path string) ([]Page, error) {
	text, err := cat.File(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract document: %w", err)
	}
	return []Page{{Number: 1, Content: text}}, nil
}

// protectExtract guards against pdf pages whose text extraction hangs.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(10 * time.Second):
		return "", errors.New("page extraction timeout")
	}
}
