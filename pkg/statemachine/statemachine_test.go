package statemachine_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storefront/pkg/statemachine"
)

func TestMachine_DeclaredTransitions(t *testing.T) {
	t.Parallel()

	m := statemachine.New("idle",
		statemachine.T("idle", "running"),
		statemachine.T("running", "done"),
		statemachine.T("running", "failed"),
	)

	assert.Equal(t, "idle", m.Current())
	assert.True(t, m.CanTransition("running"))
	assert.False(t, m.CanTransition("done"))

	require.NoError(t, m.Transition("running"))
	require.NoError(t, m.Transition("failed"))
	assert.True(t, m.Is("failed"))
}

func TestMachine_RejectsUndeclaredTransition(t *testing.T) {
	t.Parallel()

	m := statemachine.New("idle",
		statemachine.T("idle", "running"),
	)

	err := m.Transition("done")
	assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)
	assert.Equal(t, "idle", m.Current(), "state must be unchanged after a rejected transition")
}

func TestMachine_TerminalStateStaysTerminal(t *testing.T) {
	t.Parallel()

	m := statemachine.New("idle",
		statemachine.T("idle", "done"),
	)

	require.NoError(t, m.Transition("done"))

	// "done" has no outgoing transitions.
	assert.ErrorIs(t, m.Transition("idle"), statemachine.ErrInvalidTransition)
	assert.ErrorIs(t, m.Transition("done"), statemachine.ErrInvalidTransition)
}

func TestMachine_Reset(t *testing.T) {
	t.Parallel()

	m := statemachine.New("idle",
		statemachine.T("idle", "failed"),
	)

	require.NoError(t, m.Transition("failed"))
	m.Reset()
	assert.Equal(t, "idle", m.Current())
	require.NoError(t, m.Transition("failed"))
}

func TestMachine_ConcurrentTransitions(t *testing.T) {
	t.Parallel()

	m := statemachine.New(0,
		statemachine.T(0, 1),
	)

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = m.Transition(1)
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent transition may win")
	assert.Equal(t, 1, m.Current())
}
