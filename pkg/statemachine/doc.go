// Package statemachine implements a small thread-safe finite state machine
// over a declared transition table. It backs the payment bootstrapper's phase
// tracking, guaranteeing that only legal phase changes can occur and that
// terminal states stay terminal until an explicit Reset.
//
//	m := statemachine.New("idle",
//	    statemachine.T("idle", "running"),
//	    statemachine.T("running", "done"),
//	)
//	_ = m.Transition("running")
package statemachine
