package git

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/thiagokokada/gitlanes/internal/graph"
)

// DefaultGlob selects every reference.
const DefaultGlob = "refs/*"

// ListCommitsAndStashes walks the history reachable from every reference
// matching glob and appends the stash entries. Commits come newest first by
// committer time.
func (s *Service) ListCommitsAndStashes(ctx context.Context, glob string) ([]graph.RawCommit, error) {
	if glob == "" {
		glob = DefaultGlob
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	starts, err := s.startHashesLocked(glob)
	if err != nil {
		return nil, err
	}
	commits, err := s.walkLocked(ctx, starts)
	if err != nil {
		return nil, err
	}
	out := make([]graph.RawCommit, 0, len(commits))
	for _, c := range commits {
		out = append(out, rawCommit(c))
	}
	stashes, err := s.stashesLocked()
	if err != nil {
		return nil, err
	}
	s.log.Debug("listed history",
		slog.String("glob", glob),
		slog.Int("starts", len(starts)),
		slog.Int("commits", len(out)),
		slog.Int("stashes", len(stashes)),
	)
	return append(out, stashes...), nil
}

// startHashesLocked resolves the references matching glob to commits. A
// detached HEAD is always included.
func (s *Service) startHashesLocked(glob string) ([]plumbing.Hash, error) {
	match, err := globMatcher(glob)
	if err != nil {
		return nil, err
	}
	iter, err := s.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer iter.Close()

	var starts []plumbing.Hash
	seen := map[plumbing.Hash]struct{}{}
	add := func(h plumbing.Hash) {
		if _, ok := seen[h]; ok {
			return
		}
		seen[h] = struct{}{}
		starts = append(starts, h)
	}
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference || ref.Name() == stashRef {
			return nil
		}
		if !match(ref.Name().String()) {
			return nil
		}
		if h, ok := s.peelCommitHash(ref.Hash()); ok {
			add(h)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	if head, err := s.repo.Storer.Reference(plumbing.HEAD); err == nil && head.Type() == plumbing.HashReference {
		add(head.Hash())
	}
	return starts, nil
}

func (s *Service) walkLocked(ctx context.Context, starts []plumbing.Hash) ([]*object.Commit, error) {
	seen := map[plumbing.Hash]bool{}
	var out []*object.Commit
	for _, h := range starts {
		if seen[h] {
			continue
		}
		start, err := s.repo.CommitObject(h)
		if err != nil {
			return nil, fmt.Errorf("read commit %s: %w", h, err)
		}
		iter := object.NewCommitIterCTime(start, seen, nil)
		err = iter.ForEach(func(c *object.Commit) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if seen[c.Hash] {
				return nil
			}
			seen[c.Hash] = true
			out = append(out, c)
			return nil
		})
		iter.Close()
		if err != nil {
			return nil, fmt.Errorf("iterate commits: %w", err)
		}
	}
	slices.SortStableFunc(out, func(a, b *object.Commit) int {
		return b.Committer.When.Compare(a.Committer.When)
	})
	return out, nil
}

func rawCommit(c *object.Commit) graph.RawCommit {
	parents := make([]string, len(c.ParentHashes))
	for i, p := range c.ParentHashes {
		parents[i] = p.String()
	}
	summary, _, _ := strings.Cut(strings.TrimRight(c.Message, "\n"), "\n")
	return graph.RawCommit{
		ID:            c.Hash.String(),
		Summary:       summary,
		Message:       c.Message,
		AuthorName:    c.Author.Name,
		AuthorMail:    c.Author.Email,
		CommitterName: c.Committer.Name,
		CommitterMail: c.Committer.Email,
		Date:          c.Committer.When,
		Parents:       parents,
	}
}

// globMatcher compiles a git style reference glob where '*' also crosses
// slashes. A pattern without wildcards matches the name and everything below
// it.
func globMatcher(glob string) (func(string) bool, error) {
	if !strings.ContainsAny(glob, "*?[") {
		prefix := strings.TrimSuffix(glob, "/")
		return func(name string) bool {
			return name == prefix || strings.HasPrefix(name, prefix+"/")
		}, nil
	}
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range glob {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteByte('.')
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", glob, err)
	}
	return re.MatchString, nil
}
