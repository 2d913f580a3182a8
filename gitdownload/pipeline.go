package gitdownload

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/rs/zerolog/log"
)

// Pipeline drives one run: clone, walk, classify, assemble, clean up.
// Cloner and Detect are injectable; NewPipeline wires the real ones.
type Pipeline struct {
	Config *Config
	Cloner Cloner
	Detect BinaryDetector
}

func NewPipeline(cfg *Config) *Pipeline {
	return &Pipeline{
		Config: cfg,
		Cloner: GitCloner{},
		Detect: DefaultBinaryDetector,
	}
}

// Run clones the configured branch of repoURL and flattens the resulting
// tree into the download folder under outputName. The working tree is
// removed when the run finishes, on every path after a successful clone.
func (p *Pipeline) Run(repoURL, outputName string) (*Stats, error) {
	dir, err := p.Cloner.Clone(repoURL, p.Config.DefaultBranch)
	if err != nil {
		return nil, err
	}
	defer p.Cloner.Cleanup(dir)
	return p.ProcessTree(dir, outputName)
}

// ProcessTree flattens an existing tree. The local directory mode uses it
// directly, without a clone. Statistics are fresh per call.
func (p *Pipeline) ProcessTree(root, outputName string) (*Stats, error) {
	if err := os.MkdirAll(p.Config.DownloadFolder, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download folder: %w", err)
	}
	outPath := filepath.Join(p.Config.DownloadFolder, filepath.Base(outputName))
	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	stats := NewStats()
	assembler := NewAssembler(w, stats)
	classifier := NewClassifier(p.Config, p.Detect)

	err = Walk(root, p.Config, func(c Candidate) error {
		decision, cerr := classifier.Classify(c)
		if cerr != nil {
			stats.Errors++
			log.Warn().Err(cerr).Str("path", c.RelPath).Msg("failed to classify file, skipping")
			return nil
		}
		return assembler.Add(c, decision)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to process tree: %w", err)
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush output: %w", err)
	}
	log.Info().
		Str("output", outPath).
		Int("files", stats.IncludedText+stats.IncludedBinary).
		Int64("bytes", stats.BytesWritten).
		Msg("wrote combined document")
	return stats, nil
}
