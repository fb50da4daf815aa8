// Package pdf extracts plain text from PDF documents.
package pdf

import (
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"

	apierrors "privateai/internal/errors"
)

// Extractor converts a paged document into plain text.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText opens the file at path as a PDF and concatenates the
// text of every page, first to last, each followed by a newline. Pages
// that yield no extractable text are skipped; no page-level failure
// aborts the whole operation.
func (e *Extractor) ExtractText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", apierrors.NewOpenError(path, err)
	}
	defer f.Close()

	var out strings.Builder
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		text := pageText(reader, i)
		if text == "" {
			continue
		}
		out.WriteString(text)
		out.WriteByte('\n')
	}
	return out.String(), nil
}

// pageText extracts one page, absorbing both errors and parser panics
// (the pdf library panics on some malformed content streams).
func pageText(reader *pdf.Reader, num int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug().Int("page", num).Interface("panic", r).Msg("Skipping unreadable PDF page")
			text = ""
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return ""
	}

	text, err := page.GetPlainText(nil)
	if err != nil {
		log.Debug().Int("page", num).Err(err).Msg("Skipping PDF page without extractable text")
		return ""
	}
	return text
}
