package extract

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/IvanBalandraCamacho/cvindex/internal/domain"
)

// PDFText extracts plain text from a PDF, one entry per page.
// Pages whose extracted text is empty or whitespace-only are omitted.
func PDFText(path string) (pages []PageText, err error) {
	// The pdf library panics on malformed documents; convert to an error
	// so one corrupt file cannot abort a batch.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf parse failure for %s: %v", path, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer f.Close()

	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		text, ok := pdfPageText(reader, i)
		if !ok {
			log.Printf("pdf %s: skipping unreadable page %d", path, i)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, PageText{Page: i, Text: text})
	}

	return pages, nil
}

// pdfPageText reads one page, recovering from parser panics so a bad
// page is skipped instead of killing the whole document.
func pdfPageText(reader *pdf.Reader, pageNum int) (text string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			ok = false
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return "", false
	}

	content, err := page.GetPlainText(nil)
	if err != nil {
		return "", false
	}
	return content, true
}

// PDFImages extracts embedded raster images from a PDF in page order.
// Images smaller than minBytes are skipped without counting toward the
// maxImages cap; once the cap is reached extraction stops.
func PDFImages(path string, minBytes, maxImages int) ([]domain.ImageRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer f.Close()

	pageImages, err := api.ExtractImagesRaw(f, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to extract images from %s: %w", path, err)
	}

	var records []domain.ImageRecord
	for _, byObj := range pageImages {
		// Sort object numbers for a deterministic within-page order.
		objNrs := make([]int, 0, len(byObj))
		for objNr := range byObj {
			objNrs = append(objNrs, objNr)
		}
		sort.Ints(objNrs)

		for idx, objNr := range objNrs {
			img := byObj[objNr]

			data, err := io.ReadAll(img)
			if err != nil {
				log.Printf("pdf %s: failed to read image %d on page %d: %v", path, idx, img.PageNr, err)
				continue
			}
			if len(data) < minBytes {
				continue
			}

			records = append(records, domain.NewImageRecord(img.PageNr, idx, data))
			if len(records) >= maxImages {
				log.Printf("pdf %s: image cap of %d reached", path, maxImages)
				return records, nil
			}
		}
	}

	return records, nil
}
