// Package search turns live-typed text into debounced movie searches.
//
// Machine is the state machine: it reacts to TextChanged, DebounceElapsed
// and Completed events and owns the sequence number that discards stale
// timers and superseded results. It has no goroutines and can be driven by
// any event loop; the bubbletea screen drives it directly.
//
// Orchestrator drives a Machine with real timers and goroutines for callers
// that do not have an event loop of their own.
package search
