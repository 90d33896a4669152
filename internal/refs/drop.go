package refs

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotApplicable is returned when a reference cannot be dropped on another.
var ErrNotApplicable = errors.New("operation not applicable")

// Operator performs the repository side of a drop.
type Operator interface {
	PerformRefOperation(ctx context.Context, kind OpKind, from, to string) error
}

// Accepts reports whether target accepts source being dropped on it.
func Accepts(target, source Ref) bool {
	return target.Name != source.Name && source.Type.ApplicableTo(target.Type)
}

// CanCheckout reports whether ref can be checked out from its label.
func CanCheckout(ref Ref) bool {
	return ref.Type == LocalBranch && !ref.Tag.Checkedout
}

// Drop dispatches the operation of dropping source on target.
func Drop(ctx context.Context, op Operator, source, target string) error {
	from, _ := Classify(source)
	to, _ := Classify(target)
	kind, ok := Operation(from, to)
	if !ok || source == target {
		return fmt.Errorf("%w: %s on %s", ErrNotApplicable, source, target)
	}
	if err := op.PerformRefOperation(ctx, kind, source, target); err != nil {
		return fmt.Errorf("%s %s into %s: %w", kind, source, target, err)
	}
	return nil
}
