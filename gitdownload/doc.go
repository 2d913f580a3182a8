// Package gitdownload implements the repository flattening pipeline.
// It clones a single branch of a git repository, walks the checked-out
// tree, filters files by skip lists, size, extension, and binary content,
// and concatenates the survivors into one annotated text document.
//
// The pipeline is strictly sequential: one file at a time, no shared
// mutable state, statistics accumulated in an explicit object per run.
//
// Usage:
//
//	cfg, err := gitdownload.Load("config.json", gitdownload.Overrides{})
//	if err != nil {
//	    // a malformed config file is fatal
//	}
//	pipeline := gitdownload.NewPipeline(cfg)
//
//	// Clone and flatten a repository
//	stats, err := pipeline.Run("https://github.com/user/repo", "repo.txt")
//
//	// Or flatten an existing local tree
//	stats, err := pipeline.ProcessTree("/path/to/checkout", "checkout.txt")
package gitdownload
