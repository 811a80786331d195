package statemachine

import (
	"fmt"
	"sync"
)

// Transition declares one legal state change.
type Transition[S comparable] struct {
	From S
	To   S
}

// T is shorthand for declaring a transition.
func T[S comparable](from, to S) Transition[S] {
	return Transition[S]{From: from, To: to}
}

// Machine tracks a current state and permits only declared transitions.
// A state with no outgoing transitions is terminal. All methods are safe for
// concurrent use.
type Machine[S comparable] struct {
	mu      sync.RWMutex
	initial S
	current S
	allowed map[S]map[S]struct{}
}

// New creates a machine starting at initial with the given transition table.
func New[S comparable](initial S, transitions ...Transition[S]) *Machine[S] {
	allowed := make(map[S]map[S]struct{}, len(transitions))
	for _, t := range transitions {
		if _, ok := allowed[t.From]; !ok {
			allowed[t.From] = make(map[S]struct{})
		}
		allowed[t.From][t.To] = struct{}{}
	}

	return &Machine[S]{
		initial: initial,
		current: initial,
		allowed: allowed,
	}
}

// Current returns the current state.
func (m *Machine[S]) Current() S {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Is reports whether the machine is in state s.
func (m *Machine[S]) Is(s S) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current == s
}

// Transition moves the machine to the given state. Undeclared transitions
// are rejected with ErrInvalidTransition and leave the state unchanged.
func (m *Machine[S]) Transition(to S) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.allowed[m.current][to]; !ok {
		return fmt.Errorf("%w: %v -> %v", ErrInvalidTransition, m.current, to)
	}

	m.current = to
	return nil
}

// CanTransition reports whether a change to the given state is declared.
func (m *Machine[S]) CanTransition(to S) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.allowed[m.current][to]
	return ok
}

// Reset returns the machine to its initial state regardless of the table.
// Intended for external re-invocation after a terminal failure.
func (m *Machine[S]) Reset() {
	m.mu.Lock()
	m.current = m.initial
	m.mu.Unlock()
}
