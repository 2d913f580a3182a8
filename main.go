// Git Downloader is a command-line tool that clones a git repository and
// merges its files into a single annotated text document, suitable for
// pasting into analysis tools.
//
// Key Features:
//
// Repository Flattening:
//   - Clones a single branch of any git-accessible URL
//   - Filters files by extension, size, and skip lists
//   - Writes one deterministic document with per-file headers
//
// Configuration:
//   - Built-in defaults, an optional config.json, and CLI overrides
//   - Additive folder exclusions from the command line
//
// Example Usage:
//
//	# Flatten a repository with default settings
//	git-downloader https://github.com/username/repo
//
//	# Override branch and output name, print statistics
//	git-downloader -b develop -o repo.txt -s https://github.com/username/repo
//
//	# Flatten a local directory without cloning
//	git-downloader -d /path/to/checkout
package main

import "github.com/Endogen/git-downloader/cmd"

func main() {
	cmd.Execute()
}
