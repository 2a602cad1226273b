package usecase

import (
	"strings"
	"sync"
	"time"

	"github.com/alextanhongpin/clean-usecases/flow"
)

// StepInfo contains the recorded information about a step.
// Steps sharing a path within one pipeline collapse into one record,
// the report is ambiguous by design.
type StepInfo struct {
	Name      string
	Phase     flow.Action
	State     flow.State
	Path      string
	Parent    string
	Reason    error
	Retry     []error
	NextRetry time.Duration
}

type stateStore struct {
	m         sync.RWMutex
	states    map[string]StepInfo
	stepNames []string
}

func newStateStore(stepNames []string) *stateStore {
	store := &stateStore{
		states: make(map[string]StepInfo, len(stepNames)),
	}
	store.AppendStepNames(stepNames)
	return store
}

func (s *stateStore) AppendStepNames(stepNames []string) {
	s.m.Lock()
	for _, stepName := range stepNames {
		if _, ok := s.states[stepName]; !ok {
			parent, name := s.splitPath(stepName)
			s.states[stepName] = StepInfo{
				Name:   name,
				Parent: parent,
				Path:   stepName,
				Phase:  flow.ActionInit,
				State:  flow.StateWaiting,
			}
			s.stepNames = append(s.stepNames, stepName)
		}
	}
	s.m.Unlock()
}

func (s *stateStore) AddLifecycleEvent(evt flow.LifecycleEvent) {
	s.m.Lock()
	path := s.fullName(evt.Parent, evt.Name)
	if info, ok := s.states[path]; ok {
		info.Phase = evt.Action
		info.State = evt.State
		if evt.State == flow.StateFailed {
			info.Reason = evt.Reason
		}
		s.states[path] = info
	}
	s.m.Unlock()
}

func (s *stateStore) AddRetryEvent(evt flow.RetryEvent) {
	s.m.Lock()
	path := s.fullName(evt.Parent, evt.Name)
	if info, ok := s.states[path]; ok {
		info.Retry = append(info.Retry, evt.Reason)
		info.NextRetry = evt.Next
		s.states[path] = info
	}
	s.m.Unlock()
}

func (s *stateStore) fullName(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func (s *stateStore) splitPath(path string) (parent string, name string) {
	parts := strings.Split(path, ".")
	return strings.Join(parts[:len(parts)-1], "."), parts[len(parts)-1]
}

func (s *stateStore) Info(path string) (StepInfo, bool) {
	s.m.RLock()
	info, ok := s.states[path]
	s.m.RUnlock()
	return info, ok
}

func (s *stateStore) Infos(prefix string) []StepInfo {
	s.m.RLock()
	var result []StepInfo
	for _, sn := range s.stepNames {
		if strings.HasPrefix(sn, prefix) {
			result = append(result, s.states[sn])
		}
	}
	s.m.RUnlock()
	return result
}
