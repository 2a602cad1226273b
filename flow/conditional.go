package flow

import (
	"context"
	"fmt"
	"sync"
)

// Not inverts the result of a predicate
func Not[S any](pred Predicate[S]) Predicate[S] {
	return func(ctx context.Context, state *S) bool {
		return !pred(ctx, state)
	}
}

// If condition for choosing
func If[S any](pred Predicate[S]) PredicateStep[S] {
	return &BranchingStep[S]{matches: pred}
}

// PredicateStep is a partial step that exposes the Then branch in an if condition step
type PredicateStep[S any] interface {
	Then(Step[S]) *BranchingStep[S]
}

// BranchingStep forks based on a condition over the state.
// When the predicate evaluates to true the right side executes,
// otherwise the left side.
type BranchingStep[S any] struct {
	matches  Predicate[S]
	right    Step[S]
	left     Step[S]
	selected Step[S]
	m        sync.Mutex
}

// Then step to be executed when the predicate evaluates to true
func (b *BranchingStep[S]) Then(step Step[S]) *BranchingStep[S] {
	b.right = step
	return b
}

// Else step to be executed when the predicate evaluates to false
func (b *BranchingStep[S]) Else(step Step[S]) *BranchingStep[S] {
	b.left = step
	return b
}

// Name for this step, the name of a branching step is elided
func (b *BranchingStep[S]) Name() string {
	if b.right == nil {
		// people need to have purposely given a nil to the Then method
		// to even get here, the builder syntax fails compilation for an
		// incomplete predicate step
		panic("a branching step needs at least a then branch defined")
	}
	if b.left == nil {
		return "~" + b.right.Name()
	}
	return fmt.Sprintf("%s|%s", b.right.Name(), b.left.Name())
}

// Run evaluates the predicate against the state and executes the
// selected branch, the unselected branch is reported skipped.
func (b *BranchingStep[S]) Run(ctx context.Context, state *S) error {
	b.m.Lock()
	nctx := SetParentName(ctx, b.Name())
	if b.matches(ctx, state) {
		b.selected = b.right
		if b.left != nil {
			PublishRunEvent(nctx, b.left.Name(), StateSkipped, nil)
		}
	} else {
		b.selected = b.left
		PublishRunEvent(nctx, b.right.Name(), StateSkipped, nil)
	}
	selected := b.selected
	b.m.Unlock()

	if selected == nil {
		return nil
	}

	_, err := Exec(nctx, state, selected)
	return err
}
