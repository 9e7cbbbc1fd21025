package machine

import (
	"github.com/rpalvm/cse/pkg/control"
	"github.com/rpalvm/cse/pkg/value"
)

// valueStack is the LIFO stack of Values accumulated during evaluation
// (spec.md §3, §4.3). It never holds raw control items.
type valueStack struct {
	items []value.Value
}

func (s *valueStack) push(v value.Value) { s.items = append(s.items, v) }

func (s *valueStack) pop() (value.Value, bool) {
	if len(s.items) == 0 {
		return value.Value{}, false
	}
	v := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return v, true
}

func (s *valueStack) len() int { return len(s.items) }

// controlStack is the LIFO stack of control items driving reduction
// (spec.md §3, §4.3). It never holds raw Values. A fresh controlStack is
// built for every activation of a lambda body (spec.md §5); the sequence
// it is built from is never mutated.
type controlStack struct {
	items []control.Item
}

// newControlStack returns a controlStack loaded with seq such that seq[0]
// is the first item popped.
func newControlStack(seq []control.Item) *controlStack {
	cs := &controlStack{items: make([]control.Item, 0, len(seq))}
	cs.pushSeq(seq)
	return cs
}

func (s *controlStack) push(item control.Item) { s.items = append(s.items, item) }

// pushSeq appends seq onto s such that seq[0] becomes the next item popped,
// seq[1] the one after that, and so on — i.e. seq is pushed in reverse
// order (spec.md §4.4 Rule 4, §9 "Beta as a node holding two bodies").
func (s *controlStack) pushSeq(seq []control.Item) {
	for i := len(seq) - 1; i >= 0; i-- {
		s.push(seq[i])
	}
}

func (s *controlStack) pop() (control.Item, bool) {
	if len(s.items) == 0 {
		return control.Item{}, false
	}
	item := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return item, true
}

func (s *controlStack) empty() bool { return len(s.items) == 0 }

func (s *controlStack) len() int { return len(s.items) }
