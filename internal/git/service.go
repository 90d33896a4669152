// Package git reads the commit graph, references and stashes of a repository
// with go-git and performs the few mutations the viewer offers.
package git

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

var (
	// ErrNotImplemented is returned for reference operations the viewer only
	// announces.
	ErrNotImplemented = errors.New("not implemented")
	// ErrNotBranch is returned when checking out anything but a local branch.
	ErrNotBranch = errors.New("not a local branch")
)

type Service struct {
	// mu serializes access to the repository; go-git storers are not safe for
	// concurrent walks.
	mu sync.Mutex

	repo repoState
	log  *slog.Logger
}

type repoState struct {
	*gitlib.Repository
	path string
}

// Open opens the repository containing repoPath.
func Open(repoPath string) (*Service, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return New(repo, abs), nil
}

// New wraps an already opened repository, e.g. one on in-memory storage.
func New(repo *gitlib.Repository, path string) *Service {
	return &Service{
		repo: repoState{Repository: repo, path: path},
		log:  slog.Default().With(slog.String("repo", path)),
	}
}

func (s *Service) RepoPath() string {
	return s.repo.path
}

// Name is the directory name of the repository.
func (s *Service) Name() string {
	if s.repo.path == "" {
		return ""
	}
	return filepath.Base(s.repo.path)
}

// GitDir returns the on-disk git directory, or "" for in-memory storage.
func (s *Service) GitDir() string {
	st, ok := s.repo.Storer.(*filesystem.Storage)
	if !ok {
		return ""
	}
	return st.Filesystem().Root()
}
