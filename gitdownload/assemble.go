package gitdownload

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	log "github.com/rs/zerolog/log"

	u "github.com/Endogen/git-downloader/utils"
)

var headerSeparator = strings.Repeat("=", 60)

// Stats accumulates the outcome of one run. It is owned by a single
// Assembler, mutated sequentially, and reported once at the end.
type Stats struct {
	IncludedText     int
	IncludedBinary   int
	SkippedList      int
	SkippedLarge     int
	SkippedExtension int
	SkippedBinary    int
	Errors           int
	BytesWritten     int64
	FileTypes        map[string]int
}

func NewStats() *Stats {
	return &Stats{FileTypes: make(map[string]int)}
}

// Report prints the statistics to the console.
func (s *Stats) Report() {
	u.PrintHeader("Run Statistics")
	u.PrintDetail(fmt.Sprintf("included as text:      %d", s.IncludedText))
	u.PrintDetail(fmt.Sprintf("included as binary:    %d", s.IncludedBinary))
	u.PrintDetail(fmt.Sprintf("skipped by skip list:  %d", s.SkippedList))
	u.PrintDetail(fmt.Sprintf("skipped as too large:  %d", s.SkippedLarge))
	u.PrintDetail(fmt.Sprintf("skipped by extension:  %d", s.SkippedExtension))
	u.PrintDetail(fmt.Sprintf("skipped as binary:     %d", s.SkippedBinary))
	u.PrintDetail(fmt.Sprintf("read errors:           %d", s.Errors))
	u.PrintDetail(fmt.Sprintf("bytes written:         %d", s.BytesWritten))
	if len(s.FileTypes) == 0 {
		return
	}
	u.PrintHeader("File Types")
	exts := make([]string, 0, len(s.FileTypes))
	for ext := range s.FileTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		u.PrintDetail(fmt.Sprintf("%-12s %d", ext, s.FileTypes[ext]))
	}
}

// Assembler writes header/content blocks for included candidates and
// tallies every decision into its Stats.
type Assembler struct {
	w     io.Writer
	stats *Stats
}

func NewAssembler(w io.Writer, stats *Stats) *Assembler {
	return &Assembler{w: w, stats: stats}
}

// Add records the decision for one candidate and, for included files,
// writes its block. A failure to read the file is counted and logged but
// never aborts the run; a failure to write the output does.
func (a *Assembler) Add(c Candidate, d Decision) error {
	switch d {
	case ExcludeSkipList:
		a.stats.SkippedList++
		return nil
	case ExcludeTooLarge:
		a.stats.SkippedLarge++
		return nil
	case ExcludeExtension:
		a.stats.SkippedExtension++
		return nil
	case ExcludeBinary:
		a.stats.SkippedBinary++
		return nil
	}

	content, err := os.ReadFile(c.AbsPath)
	if err != nil {
		a.stats.Errors++
		log.Warn().Err(err).Str("path", c.RelPath).Msg("failed to read file, skipping")
		return nil
	}

	var block string
	if d == IncludeBinary {
		encoded := base64.StdEncoding.EncodeToString(content)
		block = fmt.Sprintf("\n%s\nFILE: %s\n%s\nENCODING: base64\n%s\n",
			headerSeparator, c.RelPath, headerSeparator, encoded)
	} else {
		block = fmt.Sprintf("\n%s\nFILE: %s\n%s\n%s\n",
			headerSeparator, c.RelPath, headerSeparator, content)
	}
	n, err := io.WriteString(a.w, block)
	if err != nil {
		return fmt.Errorf("failed to write block for %s: %w", c.RelPath, err)
	}
	a.stats.BytesWritten += int64(n)

	if d == IncludeBinary {
		a.stats.IncludedBinary++
	} else {
		a.stats.IncludedText++
	}
	ext := c.Ext
	if ext == "" {
		ext = "(none)"
	}
	a.stats.FileTypes[ext]++
	return nil
}
