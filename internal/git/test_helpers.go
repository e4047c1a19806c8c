package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/superscript-dev/superscript/internal/config"
)

// TestRepoConfig contains configuration for creating a test repository
type TestRepoConfig struct {
	Files  map[string]string // Map of filename to content
	Author *object.Signature // Author for commits (uses default if nil)
}

// CreateTestRepo creates a repository on branch main below t.TempDir() with one
// commit holding the given files. Returns the repository path.
func CreateTestRepo(t *testing.T, cfg TestRepoConfig) string {
	t.Helper()

	repoDir := t.TempDir()
	repo, err := git.PlainInitWithOptions(repoDir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName(config.GitDefaultBranch),
		},
	})
	if err != nil {
		t.Fatalf("Failed to init repository: %v", err)
	}

	CommitTestFiles(t, repo, repoDir, cfg, "Initial commit")
	return repoDir
}

// CreateBareTestRepo creates an empty bare repository usable as push target
func CreateBareTestRepo(t *testing.T) string {
	t.Helper()

	repoDir := t.TempDir()
	_, err := git.PlainInitWithOptions(repoDir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName(config.GitDefaultBranch),
		},
		Bare: true,
	})
	if err != nil {
		t.Fatalf("Failed to init bare repository: %v", err)
	}
	return repoDir
}

// CommitTestFiles writes the files of cfg into the working tree and commits them
func CommitTestFiles(t *testing.T, repo *git.Repository, repoDir string, cfg TestRepoConfig, message string) plumbing.Hash {
	t.Helper()

	workTree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}

	author := cfg.Author
	if author == nil {
		author = &object.Signature{
			Name:  "Test Author",
			Email: "test@example.com",
		}
	}

	for filename, content := range cfg.Files {
		filePath := filepath.Join(repoDir, filename)
		if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", filename, err)
		}
		if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write file %s: %v", filename, err)
		}
		if _, err := workTree.Add(filename); err != nil {
			t.Fatalf("Failed to add file %s: %v", filename, err)
		}
	}

	hash, err := workTree.Commit(message, &git.CommitOptions{
		Author:            author,
		AllowEmptyCommits: true,
	})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
	return hash
}

// OpenTestRepo opens a repository created by one of the helpers
func OpenTestRepo(t *testing.T, repoDir string) *git.Repository {
	t.Helper()

	repo, err := git.PlainOpen(repoDir)
	if err != nil {
		t.Fatalf("Failed to open repository %s: %v", repoDir, err)
	}
	return repo
}

// HeadMessage returns the message of the commit at HEAD
func HeadMessage(t *testing.T, repoDir string) string {
	t.Helper()

	repo := OpenTestRepo(t, repoDir)
	ref, err := repo.Head()
	if err != nil {
		t.Fatalf("Failed to get HEAD: %v", err)
	}
	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		t.Fatalf("Failed to get HEAD commit: %v", err)
	}
	return commit.Message
}

// CommitCount returns the number of commits reachable from HEAD
func CommitCount(t *testing.T, repoDir string) int {
	t.Helper()

	repo := OpenTestRepo(t, repoDir)
	ref, err := repo.Head()
	if err != nil {
		return 0
	}
	iter, err := repo.Log(&git.LogOptions{From: ref.Hash()})
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	count := 0
	_ = iter.ForEach(func(*object.Commit) error {
		count++
		return nil
	})
	return count
}
