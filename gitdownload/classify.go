package gitdownload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"unicode/utf8"
)

// Decision is the single classification outcome for a candidate. Exactly
// one decision is made per file, by the first matching rule.
type Decision int

const (
	IncludeText Decision = iota
	IncludeBinary
	ExcludeSkipList
	ExcludeTooLarge
	ExcludeExtension
	ExcludeBinary
)

func (d Decision) String() string {
	switch d {
	case IncludeText:
		return "include-as-text"
	case IncludeBinary:
		return "include-as-binary"
	case ExcludeSkipList:
		return "exclude-skip-list"
	case ExcludeTooLarge:
		return "exclude-too-large"
	case ExcludeExtension:
		return "exclude-extension"
	case ExcludeBinary:
		return "exclude-binary-disallowed"
	default:
		return "unknown"
	}
}

// Included reports whether the decision admits the file into the output.
func (d Decision) Included() bool {
	return d == IncludeText || d == IncludeBinary
}

// binarySampleSize is the prefix read for binary detection. 8 KB is large
// enough to catch headers of every common binary format while keeping the
// classifier cheap for big text files.
const binarySampleSize = 8 * 1024

// BinaryDetector decides whether sampled file content is binary. The
// heuristic is pluggable so alternate strategies can replace it without
// touching the classifier.
type BinaryDetector func(sample []byte) bool

// DefaultBinaryDetector flags content as binary when the sample contains
// a null byte or is not valid UTF-8. A full-length sample may end in the
// middle of a rune, so up to three trailing bytes are forgiven before the
// verdict.
func DefaultBinaryDetector(sample []byte) bool {
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}
	if utf8.Valid(sample) {
		return false
	}
	if len(sample) < binarySampleSize {
		return true
	}
	for i := 1; i < utf8.UTFMax && i < len(sample); i++ {
		if utf8.Valid(sample[:len(sample)-i]) {
			return false
		}
	}
	return true
}

// Classifier applies the inclusion rules to candidates. The rules form an
// explicit ordered chain; the first rule that matches decides the file.
type Classifier struct {
	cfg    *Config
	detect BinaryDetector
	rules  []classifyRule
}

type classifyRule struct {
	name  string
	apply func(c Candidate) (Decision, bool, error)
}

// NewClassifier builds a classifier for cfg. A nil detector selects
// DefaultBinaryDetector.
func NewClassifier(cfg *Config, detect BinaryDetector) *Classifier {
	if detect == nil {
		detect = DefaultBinaryDetector
	}
	cl := &Classifier{cfg: cfg, detect: detect}
	cl.rules = []classifyRule{
		{"skip-list", cl.ruleSkipList},
		{"size", cl.ruleSize},
		{"extension", cl.ruleExtension},
		{"binary", cl.ruleBinary},
	}
	return cl
}

// Classify returns exactly one decision for the candidate. File content
// is only read once the cheap rules have all passed, and only the first
// binarySampleSize bytes of it. Read errors propagate to the caller,
// which treats them as a per-file skip.
func (cl *Classifier) Classify(c Candidate) (Decision, error) {
	for _, r := range cl.rules {
		d, matched, err := r.apply(c)
		if err != nil {
			return d, fmt.Errorf("rule %s: %w", r.name, err)
		}
		if matched {
			return d, nil
		}
	}
	return IncludeText, nil
}

func (cl *Classifier) ruleSkipList(c Candidate) (Decision, bool, error) {
	if cl.cfg.SkipsFile(path.Base(c.RelPath)) {
		return ExcludeSkipList, true, nil
	}
	return 0, false, nil
}

func (cl *Classifier) ruleSize(c Candidate) (Decision, bool, error) {
	if c.Size > cl.cfg.MaxFileBytes() {
		return ExcludeTooLarge, true, nil
	}
	return 0, false, nil
}

// Extensionless files bypass the allow-list entirely so that LICENSE,
// Makefile, and README survive filtering; the skip list catches them by
// name instead.
func (cl *Classifier) ruleExtension(c Candidate) (Decision, bool, error) {
	if c.Ext == "" || len(cl.cfg.Extensions) == 0 {
		return 0, false, nil
	}
	if !cl.cfg.AllowsExtension(c.Ext) {
		return ExcludeExtension, true, nil
	}
	return 0, false, nil
}

func (cl *Classifier) ruleBinary(c Candidate) (Decision, bool, error) {
	sample, err := readSample(c.AbsPath)
	if err != nil {
		return 0, false, err
	}
	if !cl.detect(sample) {
		return 0, false, nil
	}
	if cl.cfg.IncludeBinary {
		return IncludeBinary, true, nil
	}
	return ExcludeBinary, true, nil
}

// readSample reads at most binarySampleSize bytes, releasing the file
// handle on every path.
func readSample(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sample := make([]byte, binarySampleSize)
	n, err := io.ReadFull(f, sample)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return sample[:n], nil
}
