package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	dir      string
	repo     *git.Repository
	worktree *git.Worktree
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	return &fixture{dir: dir, repo: repo, worktree: wt}
}

func (f *fixture) write(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(f.dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func (f *fixture) stage(t *testing.T, name string) {
	t.Helper()

	_, err := f.worktree.Add(filepath.ToSlash(name))
	require.NoError(t, err)
}

func (f *fixture) commit(t *testing.T, name, body string, when time.Time) string {
	t.Helper()

	f.write(t, name, body)
	f.stage(t, name)

	sig := &object.Signature{Name: "Writer", Email: "writer@example.com", When: when}
	hash, err := f.worktree.Commit("update "+name, &git.CommitOptions{
		Author:    sig,
		Committer: sig,
	})
	require.NoError(t, err)
	return hash.String()
}

func (f *fixture) open(t *testing.T) *Repository {
	t.Helper()

	r, err := Open(f.dir, nil)
	require.NoError(t, err)
	return r
}

func TestOpen_NotARepository(t *testing.T) {
	_, err := Open(t.TempDir(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in a git repository")
}

func TestOpen_FromSubdirectory(t *testing.T) {
	f := newFixture(t)
	f.write(t, "content/posts/a.md", "a")

	r, err := Open(filepath.Join(f.dir, "content", "posts"), nil)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(f.dir)
	require.NoError(t, err)
	assert.Equal(t, want, r.Root())
}

func TestIsTracked(t *testing.T) {
	f := newFixture(t)
	f.commit(t, "committed.md", "one", time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC))
	untracked := f.write(t, "untracked.md", "two")
	staged := f.write(t, "staged.md", "three")
	f.stage(t, "staged.md")

	r := f.open(t)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"committed file", filepath.Join(f.dir, "committed.md"), true},
		{"staged file", staged, true},
		{"untracked file", untracked, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.IsTracked(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsTracked_OutsideRepository(t *testing.T) {
	f := newFixture(t)
	r := f.open(t)

	_, err := r.IsTracked(filepath.Join(t.TempDir(), "elsewhere.md"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside of repository")
}

func TestCommits_OldestFirst(t *testing.T) {
	f := newFixture(t)
	first := f.commit(t, "post.md", "v1", time.Date(2022, 5, 1, 9, 0, 0, 0, time.UTC))
	f.commit(t, "other.md", "x", time.Date(2022, 5, 2, 9, 0, 0, 0, time.UTC))
	second := f.commit(t, "post.md", "v2", time.Date(2022, 6, 1, 9, 0, 0, 0, time.UTC))
	third := f.commit(t, "post.md", "v3", time.Date(2022, 7, 1, 9, 0, 0, 0, time.UTC))

	r := f.open(t)

	for _, follow := range []bool{false, true} {
		got, err := r.Commits(filepath.Join(f.dir, "post.md"), follow)
		require.NoError(t, err)
		assert.Equal(t, []string{first, second, third}, got, "follow=%v", follow)
	}
}

func TestCommits_FollowRename(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	f := newFixture(t)
	body := "Title: Renamed\n\nA body long enough for git to see the rename.\n"
	first := f.commit(t, "old.md", body, time.Date(2022, 5, 1, 9, 0, 0, 0, time.UTC))

	_, err := f.worktree.Remove("old.md")
	require.NoError(t, err)
	second := f.commit(t, "new.md", body, time.Date(2022, 6, 1, 9, 0, 0, 0, time.UTC))

	r := f.open(t)
	path := filepath.Join(f.dir, "new.md")

	tests := []struct {
		name   string
		follow bool
		want   []string
	}{
		{"without follow", false, []string{second}},
		{"with follow", true, []string{first, second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Commits(path, tt.follow)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommits_GoGitFallbackOrder(t *testing.T) {
	f := newFixture(t)
	first := f.commit(t, "post.md", "v1", time.Date(2022, 5, 1, 9, 0, 0, 0, time.UTC))
	second := f.commit(t, "post.md", "v2", time.Date(2022, 6, 1, 9, 0, 0, 0, time.UTC))

	r := f.open(t)

	got, err := r.commitsGoGit("post.md")
	require.NoError(t, err)
	assert.Equal(t, []string{first, second}, got)
}

func TestCommits_StagedWithoutHistory(t *testing.T) {
	f := newFixture(t)
	path := f.write(t, "draft.md", "draft")
	f.stage(t, "draft.md")

	r := f.open(t)

	got, err := r.Commits(path, false)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCommitTime(t *testing.T) {
	f := newFixture(t)
	zone := time.FixedZone("UTC+2", 2*60*60)
	when := time.Date(2021, 11, 3, 14, 15, 16, 0, zone)
	hash := f.commit(t, "post.md", "v1", when)

	r := f.open(t)

	got, err := r.CommitTime(hash)
	require.NoError(t, err)
	assert.True(t, when.Equal(got), "CommitTime() = %v, want %v", got, when)
	_, offset := got.Zone()
	assert.Equal(t, 2*60*60, offset)
}

func TestCommitTime_UnknownHash(t *testing.T) {
	f := newFixture(t)
	f.commit(t, "post.md", "v1", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))

	r := f.open(t)

	_, err := r.CommitTime("0123456789abcdef0123456789abcdef01234567")
	require.Error(t, err)
}

func TestIsModified(t *testing.T) {
	f := newFixture(t)
	f.commit(t, "post.md", "v1", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))

	r := f.open(t)
	post := filepath.Join(f.dir, "post.md")

	modified, err := r.IsModified(post)
	require.NoError(t, err)
	assert.False(t, modified)

	f.write(t, "post.md", "v2")

	modified, err = r.IsModified(post)
	require.NoError(t, err)
	assert.True(t, modified)

	modified, err = r.isModifiedGoGit("post.md")
	require.NoError(t, err)
	assert.True(t, modified)
}
