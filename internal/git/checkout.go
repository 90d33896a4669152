package git

import (
	"context"
	"fmt"
	"log/slog"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/thiagokokada/gitlanes/internal/refs"
)

// Checkout switches the worktree to a local branch. Local changes make the
// checkout fail instead of being overwritten.
func (s *Service) Checkout(ctx context.Context, refName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if typ, _ := refs.Classify(refName); typ != refs.LocalBranch || refName == typ.Root() {
		return fmt.Errorf("checkout %s: %w", refName, ErrNotBranch)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	wt, err := s.repo.Worktree()
	if err != nil {
		return fmt.Errorf("checkout %s: %w", refName, err)
	}
	if err := wt.Checkout(&gitlib.CheckoutOptions{Branch: plumbing.ReferenceName(refName)}); err != nil {
		return fmt.Errorf("checkout %s: %w", refName, err)
	}
	s.log.Info("checked out", slog.String("ref", refName))
	return nil
}

// PerformRefOperation is the repository side of dropping one reference on
// another. None of the operations are supported yet.
func (s *Service) PerformRefOperation(ctx context.Context, kind refs.OpKind, from, to string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Info("reference operation requested",
		slog.String("op", kind.String()),
		slog.String("from", from),
		slog.String("to", to),
	)
	return fmt.Errorf("%s %s into %s: %w", kind, from, to, ErrNotImplemented)
}
