package flow

// Walk visits a step tree in declaration order, calling fn with the
// dotted path of every step it knows how to look inside. Retry wrappers
// share their inner step's name and are not reported separately.
//
// Two steps sharing a name within one pipeline produce the same path,
// the report is ambiguous by design.
func Walk[S any](step Step[S], fn func(path string)) {
	walk(step, "", fn)
}

func walk[S any](step Step[S], parent string, fn func(path string)) {
	if r, ok := step.(*retryStep[S]); ok {
		walk(r.step, parent, fn)
		return
	}

	path := step.Name()
	if parent != "" {
		path = parent + "." + path
	}
	fn(path)

	switch s := step.(type) {
	case *chainStep[S]:
		for _, child := range s.steps {
			walk(child, path, fn)
		}
	case *txStep[S]:
		for _, child := range s.steps {
			walk(child, path, fn)
		}
	case *raceStep[S]:
		for _, child := range s.steps {
			walk(child, path, fn)
		}
	case *BranchingStep[S]:
		walk(s.right, path, fn)
		if s.left != nil {
			walk(s.left, path, fn)
		}
	}
}
