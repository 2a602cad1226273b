package eventbus

import (
	"sync"
	"time"

	"github.com/rcrowley/go-metrics"
	"github.com/sirupsen/logrus"
)

// Event you can subscribe to
type Event struct {
	Name string
	At   time.Time
	Args any
}

// EventHandler deals with handling events
type EventHandler interface {
	On(Event) error
}

// Handler wraps a function that will be called when an event is received.
// Errors produced by the function are passed to the bus error handler,
// which logs them unless replaced.
func Handler(on func(Event) error) EventHandler {
	return &funcHandler{on: on}
}

type funcHandler struct {
	on func(Event) error
}

func (h *funcHandler) On(evt Event) error { return h.on(evt) }

// NOOPHandler drops events on the floor without taking action
var NOOPHandler = Handler(func(Event) error { return nil })

// EventPredicate for filtering events
type EventPredicate func(Event) bool

// Filtered composes an event handler with a filter, only matching
// events reach the next handler.
func Filtered(matches EventPredicate, next EventHandler) EventHandler {
	return &filteredHandler{matches: matches, next: next}
}

type filteredHandler struct {
	matches EventPredicate
	next    EventHandler
}

func (f *filteredHandler) On(evt Event) error {
	if !f.matches(evt) {
		return nil
	}
	return f.next.On(evt)
}

// EventBus does fanout to registered handlers
type EventBus interface {
	Close() error
	Publish(Event)
	Subscribe(...EventHandler)
	Unsubscribe(...EventHandler)
	Len() int
}

// NopBus drops every event, it stands in when no bus is configured.
var NopBus EventBus = &nopBus{}

type nopBus struct{}

func (n *nopBus) Close() error                { return nil }
func (n *nopBus) Publish(Event)               {}
func (n *nopBus) Subscribe(...EventHandler)   {}
func (n *nopBus) Unsubscribe(...EventHandler) {}
func (n *nopBus) Len() int                    { return 0 }

type subscription struct {
	listener chan Event
	handler  EventHandler
	closed   chan struct{}
}

func subscribe(handler EventHandler, onError func(error)) *subscription {
	s := &subscription{
		listener: make(chan Event),
		handler:  handler,
		closed:   make(chan struct{}),
	}
	go func() {
		defer close(s.closed)
		for evt := range s.listener {
			if err := s.handler.On(evt); err != nil {
				onError(err)
			}
		}
	}()
	return s
}

func (s *subscription) stop() {
	close(s.listener)
	<-s.closed
}

type defaultEventBus struct {
	lock sync.RWMutex

	channel      chan Event
	subs         []*subscription
	closing      chan chan struct{}
	log          logrus.FieldLogger
	errorHandler func(error)
}

// New event bus with the specified logger and the default handler timeout
func New(log logrus.FieldLogger) EventBus {
	return NewWithTimeout(log, 100*time.Millisecond)
}

// NewWithTimeout creates a new eventbus, events not picked up by a handler
// within the timeout are dropped for that handler.
func NewWithTimeout(log logrus.FieldLogger, timeout time.Duration) EventBus {
	if log == nil {
		log = logrus.New().WithFields(nil)
	}
	e := &defaultEventBus{
		channel: make(chan Event, 100),
		closing: make(chan chan struct{}),
		log:     log,
	}
	e.errorHandler = func(err error) { e.log.Errorln(err) }
	go e.dispatch(timeout)
	return e
}

// dispatch delivers events one at a time, handlers observe them in
// publish order
func (e *defaultEventBus) dispatch(timeout time.Duration) {
	for {
		select {
		case evt := <-e.channel:
			e.fanout(evt, timeout)
		case done := <-e.closing:
		drain:
			for {
				select {
				case evt := <-e.channel:
					e.fanout(evt, timeout)
				default:
					break drain
				}
			}
			e.lock.Lock()
			for _, sub := range e.subs {
				sub.stop()
			}
			e.subs = nil
			e.lock.Unlock()
			e.log.Debug("event bus closed")
			done <- struct{}{}
			return
		}
	}
}

func (e *defaultEventBus) fanout(evt Event, timeout time.Duration) {
	timer := metrics.GetOrRegisterTimer("events.notify", metrics.DefaultRegistry)
	timer.Time(func() {
		e.lock.RLock()
		defer e.lock.RUnlock()

		if len(e.subs) == 0 {
			e.log.Debugf("no active listeners, skipping broadcast of %s", evt.Name)
			return
		}

		var wg sync.WaitGroup
		wg.Add(len(e.subs))
		for _, sub := range e.subs {
			go func(listener chan<- Event) {
				defer wg.Done()
				t := time.NewTimer(timeout)
				defer t.Stop()
				select {
				case listener <- evt:
				case <-t.C:
					e.log.Warnf("listener did not accept event %q within %v", evt.Name, timeout)
				}
			}(sub.listener)
		}
		wg.Wait()
	})
}

// Publish an event to all interested subscribers
func (e *defaultEventBus) Publish(evt Event) {
	e.channel <- evt
}

// Subscribe to events published in the bus
func (e *defaultEventBus) Subscribe(handlers ...EventHandler) {
	e.lock.Lock()
	defer e.lock.Unlock()
	for _, handler := range handlers {
		e.subs = append(e.subs, subscribe(handler, e.errorHandler))
	}
}

// Unsubscribe stops delivery to the given handlers
func (e *defaultEventBus) Unsubscribe(handlers ...EventHandler) {
	e.lock.Lock()
	defer e.lock.Unlock()
	for _, h := range handlers {
		for i, sub := range e.subs {
			if sub.handler == h {
				sub.stop()
				e.subs = append(e.subs[:i], e.subs[i+1:]...)
				break
			}
		}
	}
}

// Close waits for in-flight events to be dispatched and stops all subscriptions
func (e *defaultEventBus) Close() error {
	done := make(chan struct{})
	e.closing <- done
	<-done
	close(e.closing)
	return nil
}

// Len returns the number of active subscriptions
func (e *defaultEventBus) Len() int {
	e.lock.RLock()
	defer e.lock.RUnlock()
	return len(e.subs)
}
