package gitdownload

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	log "github.com/rs/zerolog/log"
)

// Cloner produces a checked-out working tree and disposes of it after the
// run. The pipeline owns the returned directory for the run's duration.
type Cloner interface {
	Clone(repoURL, branch string) (string, error)
	Cleanup(dir string)
}

// GitCloner clones a single branch of any git-accessible URL into a
// temporary directory.
type GitCloner struct{}

func (GitCloner) Clone(repoURL, branch string) (string, error) {
	tempDir, err := os.MkdirTemp("", "git-downloader-clone-")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	opts := &git.CloneOptions{
		URL:           repoURL,
		Progress:      nil,
		Depth:         1,
		SingleBranch:  true,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
	}
	if token := os.Getenv("GH_TOKEN"); token != "" {
		log.Debug().Msg("using GitHub token for authentication")
		opts.Auth = &githttp.BasicAuth{
			Username: "git", // can be anything but not empty
			Password: token,
		}
	}
	if _, err := git.PlainClone(tempDir, false, opts); err != nil {
		os.RemoveAll(tempDir)
		return "", fmt.Errorf("failed to clone branch %q from %s: %w", branch, repoURL, err)
	}
	log.Debug().Str("path", tempDir).Str("branch", branch).Msg("cloned repository")
	return tempDir, nil
}

// Cleanup removes the working tree. Failure is logged, never fatal.
func (GitCloner) Cleanup(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		log.Warn().Err(err).Str("path", dir).Msg("failed to remove working tree")
	}
}

// RepoName derives an output base name from the repository URL,
// e.g. "https://github.com/user/repo.git" -> "repo".
func RepoName(repoURL string) string {
	p := repoURL
	if parsed, err := url.Parse(repoURL); err == nil && parsed.Path != "" {
		p = parsed.Path
	}
	name := strings.TrimSuffix(path.Base(p), ".git")
	if name == "" || name == "." || name == "/" {
		return "repository"
	}
	return name
}
