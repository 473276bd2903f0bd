package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

const pageExtractTimeout = 10 * time.Second

type rawPage struct {
	Number  int
	Content string
}

func GetDocType(docPath string) commonModels.DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return commonModels.PDF
	case ".docx", ".odt", ".rtf":
		return commonModels.DOCX
	case ".txt", ".md":
		return commonModels.TXT
	default:
		return commonModels.ERR
	}
}

// ExtractText returns the document text, with each PDF page prefixed by a "[Page N]" marker.
func ExtractText(path string, contentType commonModels.DocType) (string, error) {
	switch contentType {
	case commonModels.PDF:
		pages, err := extractPDF(path)
		if err != nil {
			return "", err
		}
		return joinPages(pages), nil
	case commonModels.TXT:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
		}
		return string(data), nil
	case commonModels.DOCX:
		text, err := cat.File(path)
		if err != nil {
			return "", fmt.Errorf("failed to extract %s: %w", filepath.Base(path), err)
		}
		return text, nil
	default:
		return "", fmt.Errorf("unsupported content type: %s", contentType)
	}
}

func joinPages(pages []rawPage) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		if strings.TrimSpace(p.Content) == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("[Page %d]\n%s", p.Number, p.Content))
	}
	return strings.Join(parts, "\n\n")
}

func extractPDF(path string) ([]rawPage, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []rawPage
	numPages := f.NumPage()
	logger.Debug("extractPDF", "pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// a bad page should not sink the whole document
			logger.Error("Error parsing page content", "page", i, "error", err)
			continue
		}
		pages = append(pages, rawPage{Number: i, Content: content})
	}
	return pages, nil
}

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
	case <-time.After(pageExtractTimeout):
		return "", errors.New("page extraction timeout")
	}
}
