package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/IvanBalandraCamacho/cvindex/internal/domain"
	"github.com/IvanBalandraCamacho/cvindex/internal/extract"
)

// imageChunkPrefix marks chunks whose text came from embedded images so
// downstream consumers can tell them apart from body content.
const imageChunkPrefix = "[image] "

// defaultMinChunkChars drops fragments too short to be worth indexing.
const defaultMinChunkChars = 20

type pageTextExtractor func(path string) ([]extract.PageText, error)

// ProcessorConfig holds the tunables for a CVProcessor.
type ProcessorConfig struct {
	Folder        string
	Chunking      ChunkConfig
	MinChunkChars int
	Debug         bool
}

// CVProcessor turns CV documents into ordered, annotated retrieval
// chunks. Processing one document is a linear pipeline: extract text per
// page, normalize, chunk, then optionally append image-derived chunks
// obtained through vision OCR.
type CVProcessor struct {
	folder         string
	chunkCfg       ChunkConfig
	minChunkChars  int
	debug          bool
	vision         *VisionService
	textExtractors map[string]pageTextExtractor
}

// NewCVProcessor creates a new CVProcessor. A nil vision service disables
// image OCR. The chunk configuration is validated here so a pathological
// size/overlap pair is rejected before any document is touched.
func NewCVProcessor(cfg ProcessorConfig, vision *VisionService) (*CVProcessor, error) {
	if cfg.Chunking.Size == 0 {
		cfg.Chunking = DefaultChunkConfig()
	}
	if err := cfg.Chunking.Validate(); err != nil {
		return nil, err
	}
	if cfg.MinChunkChars <= 0 {
		cfg.MinChunkChars = defaultMinChunkChars
	}

	return &CVProcessor{
		folder:        cfg.Folder,
		chunkCfg:      cfg.Chunking,
		minChunkChars: cfg.MinChunkChars,
		debug:         cfg.Debug,
		vision:        vision,
		textExtractors: map[string]pageTextExtractor{
			extract.FormatPDF:  extract.PDFText,
			extract.FormatDocx: extract.DocxText,
			extract.FormatDoc:  extract.DocxText,
		},
	}, nil
}

// ProcessFile processes a single CV document and returns its chunks in
// reading order: body chunks page by page, then image-derived chunks.
// Extraction failures yield zero chunks, never an abort.
func (p *CVProcessor) ProcessFile(ctx context.Context, path, ownerKey string) ([]domain.Chunk, error) {
	if ownerKey == "" {
		return nil, domain.ErrEmptyOwnerKey
	}

	extractor, ok := p.textExtractors[extract.Ext(path)]
	if !ok {
		log.Printf("unsupported format: %s", path)
		return nil, nil
	}

	pages, err := extractor(path)
	if err != nil {
		log.Printf("failed to extract text from %s: %v", path, err)
		return nil, nil
	}
	if len(pages) == 0 {
		log.Printf("no text extracted from %s", path)
		return nil, nil
	}

	name := filepath.Base(path)
	var chunks []domain.Chunk
	seq := 0

	for _, page := range pages {
		cleaned := normalizeText(page.Text)
		if cleaned == "" {
			continue
		}
		for _, text := range chunkText(cleaned, p.chunkCfg) {
			if len([]rune(text)) < p.minChunkChars {
				continue
			}
			chunks = append(chunks, domain.NewChunk(ownerKey, seq, text, page.Page, name))
			seq++
		}
	}

	if p.vision != nil {
		visionText := p.vision.DocumentImageText(ctx, path)
		if cleaned := normalizeText(visionText); cleaned != "" {
			for _, text := range chunkText(cleaned, p.chunkCfg) {
				if len([]rune(text)) < p.minChunkChars {
					continue
				}
				chunks = append(chunks, domain.NewChunk(ownerKey, seq, imageChunkPrefix+text, 0, name))
				seq++
			}
		}
	}

	return chunks, nil
}

// ProcessBatch processes every supported file in the folder whose name
// appears in the filename to owner-key mapping. Per-file failures are
// contained; the batch always completes and returns partial results with
// aggregate counts. Only a missing folder is a real error.
func (p *CVProcessor) ProcessBatch(ctx context.Context, mapping map[string]string) ([]domain.Chunk, *domain.BatchReport, error) {
	entries, err := os.ReadDir(p.folder)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrFolderNotFound, p.folder)
	}

	report := &domain.BatchReport{}
	var all []domain.Chunk

	// os.ReadDir sorts by filename, keeping batch runs deterministic.
	for _, entry := range entries {
		if entry.IsDir() || !extract.Supports(entry.Name()) {
			continue
		}

		ownerKey, ok := mapping[entry.Name()]
		if !ok || ownerKey == "" {
			if p.debug {
				log.Printf("no owner key for %s, skipping", entry.Name())
			}
			report.Skipped++
			continue
		}

		chunks, err := p.ProcessFile(ctx, filepath.Join(p.folder, entry.Name()), ownerKey)
		if err != nil {
			log.Printf("failed to process %s: %v", entry.Name(), err)
			continue
		}

		if len(chunks) > 0 {
			all = append(all, chunks...)
			report.Processed++
			log.Printf("%s -> %d chunks", entry.Name(), len(chunks))
		} else {
			log.Printf("%s -> no content", entry.Name())
		}
	}

	if p.vision != nil {
		p.vision.Flush()
	}

	report.TotalChunks = len(all)
	log.Printf("batch complete: processed=%d skipped=%d chunks=%d", report.Processed, report.Skipped, report.TotalChunks)

	return all, report, nil
}

// Folder returns the CV folder this processor reads from.
func (p *CVProcessor) Folder() string {
	return p.folder
}
