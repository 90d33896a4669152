package git

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/thiagokokada/gitlanes/internal/refs"
)

// RefTarget is a fully qualified reference and the commit it points at.
type RefTarget struct {
	Name string
	Hash string
}

// ListReferences returns branches, remote branches and tags sorted by name.
// Annotated tags are peeled to their commit; stashes are listed as commits.
func (s *Service) ListReferences(ctx context.Context) ([]RefTarget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	iter, err := s.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer iter.Close()

	var out []RefTarget
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name().String()
		typ, ok := refs.Classify(name)
		if !ok || typ == refs.Stash {
			return nil
		}
		if typ == refs.Remote && strings.HasSuffix(name, "/HEAD") {
			return nil
		}
		hash, ok := s.peelCommitHash(ref.Hash())
		if !ok {
			return nil
		}
		out = append(out, RefTarget{Name: name, Hash: hash.String()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	slices.SortFunc(out, func(a, b RefTarget) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// HeadName returns the fully qualified name of the checked out branch, or ""
// when HEAD is detached or unborn.
func (s *Service) HeadName(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	head, err := s.repo.Storer.Reference(plumbing.HEAD)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference {
		return "", nil
	}
	return head.Target().String(), nil
}

func (s *Service) peelCommitHash(hash plumbing.Hash) (plumbing.Hash, bool) {
	if s.repo.Repository == nil || hash == plumbing.ZeroHash {
		return plumbing.ZeroHash, false
	}
	// Lightweight tags and branches point directly at a commit; annotated tags
	// point at a tag object.
	if _, err := s.repo.CommitObject(hash); err == nil {
		return hash, true
	}
	cur := hash
	for range 8 {
		tag, err := s.repo.TagObject(cur)
		if err != nil {
			return plumbing.ZeroHash, false
		}
		switch tag.TargetType {
		case plumbing.CommitObject:
			return tag.Target, true
		case plumbing.TagObject:
			cur = tag.Target
		default:
			return plumbing.ZeroHash, false
		}
	}
	return plumbing.ZeroHash, false
}
