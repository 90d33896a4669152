package git

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/thiagokokada/gitlanes/internal/graph"
)

const (
	stashRef    = plumbing.ReferenceName("refs/stash")
	stashReflog = "logs/refs/stash"
)

// stashesLocked lists stash entries, stash@{0} first.
func (s *Service) stashesLocked() ([]graph.RawCommit, error) {
	hashes, err := s.stashHashesLocked()
	if err != nil {
		return nil, err
	}
	out := make([]graph.RawCommit, 0, len(hashes))
	for i, h := range hashes {
		c, err := s.repo.CommitObject(h)
		if err != nil {
			s.log.Debug("skipping unreadable stash",
				slog.Int("index", i),
				slog.String("hash", h.String()),
				slog.Any("error", err),
			)
			continue
		}
		raw := rawCommit(c)
		raw.IsStash = true
		raw.StashID = i
		out = append(out, raw)
	}
	return out, nil
}

// stashHashesLocked reads the stash reflog. Storages without one only expose
// the latest stash through refs/stash.
func (s *Service) stashHashesLocked() ([]plumbing.Hash, error) {
	ref, err := s.repo.Reference(stashRef, true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", stashRef, err)
	}
	if st, ok := s.repo.Storer.(*filesystem.Storage); ok {
		hashes, err := readReflog(st.Filesystem(), stashReflog)
		switch {
		case err == nil && len(hashes) > 0:
			return hashes, nil
		case err != nil && !errors.Is(err, os.ErrNotExist):
			return nil, err
		}
	}
	return []plumbing.Hash{ref.Hash()}, nil
}

func readReflog(fs billy.Filesystem, name string) ([]plumbing.Hash, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	hashes, err := parseReflog(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return hashes, nil
}

// parseReflog returns the new hash of every entry, newest first.
func parseReflog(r io.Reader) ([]plumbing.Hash, error) {
	var out []plumbing.Hash
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || !plumbing.IsHash(fields[1]) {
			continue
		}
		out = append(out, plumbing.NewHash(fields[1]))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	slices.Reverse(out)
	return out, nil
}
