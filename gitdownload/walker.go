package gitdownload

import (
	"io/fs"
	"path/filepath"
	"strings"

	log "github.com/rs/zerolog/log"
)

// Candidate is a file discovered during traversal, not yet classified.
type Candidate struct {
	RelPath string // relative to the walk root, forward-slash separators
	AbsPath string
	Size    int64
	Ext     string // lowercased, empty when the file has none
}

// Walk traverses root depth-first in lexicographic order and calls fn for
// every candidate file. A directory whose name is on the skip list is
// pruned wholesale at any depth: nothing beneath it is yielded or counted.
// The root itself is never pruned. fn returning an error aborts the walk.
func Walk(root string, cfg *Config, fn func(Candidate) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("error accessing path, skipping")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && cfg.SkipsFolder(d.Name()) {
				log.Debug().Str("path", path).Msg("pruning folder")
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("failed to stat file, skipping")
			return nil
		}
		return fn(Candidate{
			RelPath: filepath.ToSlash(rel),
			AbsPath: path,
			Size:    info.Size(),
			Ext:     strings.ToLower(filepath.Ext(path)),
		})
	})
}
