package git

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"go.uber.org/zap"
)

// Repository answers the source control questions the resolver asks about a
// single file.
type Repository struct {
	repo   *git.Repository
	root   string
	logger *zap.Logger
}

// Open finds the repository containing dir, walking up parent directories.
func Open(dir string, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("not in a git repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	logger.Debug("Opened repository", zap.String("root", root))

	return &Repository{
		repo:   repo,
		root:   root,
		logger: logger,
	}, nil
}

// Root is the top of the working tree.
func (r *Repository) Root() string {
	return r.root
}

// relPath maps a working-directory or absolute path to the slash separated
// form git uses inside the repository.
func (r *Repository) relPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return "", fmt.Errorf("failed to make %s relative to %s: %w", path, r.root, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside of repository %s", path, r.root)
	}

	return filepath.ToSlash(rel), nil
}

// IsTracked reports whether path has an entry in the index.
func (r *Repository) IsTracked(path string) (bool, error) {
	rel, err := r.relPath(path)
	if err != nil {
		return false, err
	}

	idx, err := r.repo.Storer.Index()
	if err != nil {
		return false, fmt.Errorf("failed to read index: %w", err)
	}

	if _, err := idx.Entry(rel); err != nil {
		return false, nil
	}

	return true, nil
}

// IsModified reports whether path differs from HEAD in either the index or
// the working tree.
func (r *Repository) IsModified(path string) (bool, error) {
	rel, err := r.relPath(path)
	if err != nil {
		return false, err
	}

	// git status --porcelain is much faster than go-git's Status() on large
	// trees
	cmd := exec.Command("git", "-C", r.root, "status", "--porcelain", "--", rel)
	output, err := cmd.Output()
	if err != nil {
		r.logger.Debug("git status failed, falling back to go-git",
			zap.String("path", rel), zap.Error(err))
		return r.isModifiedGoGit(rel)
	}

	return len(bytes.TrimSpace(output)) > 0, nil
}

func (r *Repository) isModifiedGoGit(rel string) (bool, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to get worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("failed to get status: %w", err)
	}

	fs, ok := status[rel]
	if !ok {
		return false, nil
	}

	return fs.Staging != git.Unmodified || fs.Worktree != git.Unmodified, nil
}

// Commits lists the hashes of commits touching path, oldest first. With
// follow set, history before a rename is included.
func (r *Repository) Commits(path string, follow bool) ([]string, error) {
	rel, err := r.relPath(path)
	if err != nil {
		return nil, err
	}

	args := []string{"-C", r.root, "log", "--format=%H"}
	if follow {
		args = append(args, "--follow")
	}
	args = append(args, "--", rel)

	cmd := exec.Command("git", args...)
	output, err := cmd.Output()
	if err != nil {
		r.logger.Debug("git log failed, falling back to go-git",
			zap.String("path", rel), zap.Error(err))
		return r.commitsGoGit(rel)
	}

	// git log prints newest first
	hashes := strings.Fields(string(output))
	reverse(hashes)
	return hashes, nil
}

// commitsGoGit walks history without rename detection, which go-git does not
// provide.
func (r *Repository) commitsGoGit(rel string) ([]string, error) {
	if _, err := r.repo.Head(); err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	iter, err := r.repo.Log(&git.LogOptions{
		FileName: &rel,
		Order:    git.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read log for %s: %w", rel, err)
	}
	defer iter.Close()

	var hashes []string
	err = iter.ForEach(func(c *object.Commit) error {
		hashes = append(hashes, c.Hash.String())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk log for %s: %w", rel, err)
	}

	reverse(hashes)
	return hashes, nil
}

// CommitTime returns the committer timestamp of hash in the committer's own
// zone.
func (r *Repository) CommitTime(hash string) (time.Time, error) {
	commit, err := r.repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to lookup commit %s: %w", hash, err)
	}
	return commit.Committer.When, nil
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
