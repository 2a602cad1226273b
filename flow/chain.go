package flow

import "context"

// Chain packages an ordered step sequence as a single step, so
// sub-pipelines compose inside an outer sequence. Running the chain is
// behaviorally identical to calling Exec on the same sequence: first
// failure stops it and is surfaced verbatim.
func Chain[S any](name StepName, steps ...Step[S]) Step[S] {
	return &chainStep[S]{StepName: name, steps: steps}
}

type chainStep[S any] struct {
	StepName
	steps []Step[S]
}

func (s *chainStep[S]) Run(ctx context.Context, state *S) error {
	_, err := Exec(SetParentName(ctx, s.Name()), state, s.steps...)
	return err
}
