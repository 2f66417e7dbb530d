package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/IvanBalandraCamacho/cvindex/internal/domain"
)

const (
	docxDocumentEntry = "word/document.xml"
	docxMediaPrefix   = "word/media/"
	docxCellSeparator = " | "
)

// documentXML mirrors the parts of word/document.xml we read. Paragraphs
// and tables are collected separately: body text first, table text after,
// matching the document reading order python-docx exposes.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
		Tables     []docTable  `xml:"tbl"`
	} `xml:"body"`
}

type paragraph struct {
	Runs       []run       `xml:"r"`
	Hyperlinks []hyperlink `xml:"hyperlink"`
}

type hyperlink struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

type docTable struct {
	Rows []tableRow `xml:"tr"`
}

type tableRow struct {
	Cells []tableCell `xml:"tc"`
}

type tableCell struct {
	Paragraphs []paragraph `xml:"p"`
}

// DocxText extracts the full text of a DOCX document. DOCX has no real
// pagination, so the whole document comes back as a single page-1 entry;
// an empty document yields an empty slice.
func DocxText(path string) ([]PageText, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open docx %s: %w", path, err)
	}
	defer zr.Close()

	content, err := readZipEntry(&zr.Reader, docxDocumentEntry)
	if err != nil {
		return nil, fmt.Errorf("failed to read document body of %s: %w", path, err)
	}
	if content == nil {
		return nil, nil
	}

	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document body of %s: %w", path, err)
	}

	var lines []string
	for _, para := range doc.Body.Paragraphs {
		if text := paragraphText(para); text != "" {
			lines = append(lines, text)
		}
	}
	for _, tbl := range doc.Body.Tables {
		for _, row := range tbl.Rows {
			var cells []string
			for _, cell := range row.Cells {
				if text := cellText(cell); text != "" {
					cells = append(cells, text)
				}
			}
			if len(cells) > 0 {
				lines = append(lines, strings.Join(cells, docxCellSeparator))
			}
		}
	}

	full := strings.TrimSpace(strings.Join(lines, "\n"))
	if full == "" {
		return nil, nil
	}
	return []PageText{{Page: 1, Text: full}}, nil
}

// DocxImages enumerates embedded raster images from the word/media/
// archive directory. DOCX has no pages, so every record carries the
// page sentinel 0.
func DocxImages(path string, minBytes, maxImages int) ([]domain.ImageRecord, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open docx %s: %w", path, err)
	}
	defer zr.Close()

	var records []domain.ImageRecord
	idx := 0
	for _, file := range zr.File {
		if !strings.HasPrefix(file.Name, docxMediaPrefix) || !isRasterImage(file.Name) {
			continue
		}
		imageIndex := idx
		idx++

		data, err := readZipFile(file)
		if err != nil {
			log.Printf("docx %s: failed to read media entry %s: %v", path, file.Name, err)
			continue
		}
		if len(data) < minBytes {
			continue
		}

		records = append(records, domain.NewImageRecord(0, imageIndex, data))
		if len(records) >= maxImages {
			log.Printf("docx %s: image cap of %d reached", path, maxImages)
			break
		}
	}

	return records, nil
}

// paragraphText concatenates the paragraph's direct runs, then the runs
// nested inside its hyperlinks, so link text such as email addresses
// survives extraction.
func paragraphText(para paragraph) string {
	var b strings.Builder
	writeRuns(&b, para.Runs)
	for _, link := range para.Hyperlinks {
		writeRuns(&b, link.Runs)
	}
	return strings.TrimSpace(b.String())
}

func writeRuns(b *strings.Builder, runs []run) {
	for _, r := range runs {
		for _, t := range r.Text {
			b.WriteString(t.Content)
		}
	}
}

func cellText(cell tableCell) string {
	var parts []string
	for _, para := range cell.Paragraphs {
		if text := paragraphText(para); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

func readZipEntry(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name == name {
			return readZipFile(file)
		}
	}
	return nil, nil
}

func readZipFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
