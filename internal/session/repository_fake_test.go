package session

import (
	"context"
	"errors"
	"sync"

	"github.com/thiagokokada/gitlanes/internal/git"
	"github.com/thiagokokada/gitlanes/internal/graph"
	"github.com/thiagokokada/gitlanes/internal/refs"
)

type opCall struct {
	kind     refs.OpKind
	from, to string
}

type fakeRepository struct {
	mu sync.Mutex

	listCommitsFunc func(glob string) ([]graph.RawCommit, error)
	listRefsFunc    func() ([]git.RefTarget, error)
	headNameFunc    func() (string, error)
	checkoutFunc    func(refName string) error
	refOpFunc       func(kind refs.OpKind, from, to string) error

	lastGlob     string
	lastCheckout string
	ops          []opCall
}

func (f *fakeRepository) ListCommitsAndStashes(_ context.Context, glob string) ([]graph.RawCommit, error) {
	f.mu.Lock()
	f.lastGlob = glob
	f.mu.Unlock()
	if f.listCommitsFunc != nil {
		return f.listCommitsFunc(glob)
	}
	return nil, errors.New("unexpected ListCommitsAndStashes call")
}

func (f *fakeRepository) ListReferences(context.Context) ([]git.RefTarget, error) {
	if f.listRefsFunc != nil {
		return f.listRefsFunc()
	}
	return nil, errors.New("unexpected ListReferences call")
}

func (f *fakeRepository) HeadName(context.Context) (string, error) {
	if f.headNameFunc != nil {
		return f.headNameFunc()
	}
	return "", errors.New("unexpected HeadName call")
}

func (f *fakeRepository) Checkout(_ context.Context, refName string) error {
	f.mu.Lock()
	f.lastCheckout = refName
	f.mu.Unlock()
	if f.checkoutFunc != nil {
		return f.checkoutFunc(refName)
	}
	return errors.New("unexpected Checkout call")
}

func (f *fakeRepository) PerformRefOperation(_ context.Context, kind refs.OpKind, from, to string) error {
	f.mu.Lock()
	f.ops = append(f.ops, opCall{kind, from, to})
	f.mu.Unlock()
	if f.refOpFunc != nil {
		return f.refOpFunc(kind, from, to)
	}
	return git.ErrNotImplemented
}
