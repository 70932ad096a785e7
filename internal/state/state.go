// Package state holds the shared context threaded through one simulation run.
//
// Ownership rules: the runner constructs the State and is the only writer of
// the signal map. Analysts receive the State by reference, read any field, and
// return their own ticker->signal mapping; the runner merges it under the
// analyst's name. Two analysts never share a namespace, so merges for
// different analysts may happen concurrently.
package state

import (
	"sync"

	"llm-hedge-fund/internal/types"
)

// Metadata carries run-level flags and model selection for text-generation
// calls.
type Metadata struct {
	ShowReasoning bool
	ModelProvider string
	ModelName     string
}

// State is the unit of work for one simulation run.
type State struct {
	Tickers   []string
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD, the "today" of the simulation
	Portfolio types.Portfolio
	Metadata  Metadata

	mu      sync.RWMutex
	signals map[string]map[string]types.Signal
}

// New builds a State for the given ticker batch and as-of window.
func New(tickers []string, startDate, endDate string, portfolio types.Portfolio, md Metadata) *State {
	if portfolio.Positions == nil {
		portfolio.Positions = map[string]int{}
	}
	return &State{
		Tickers:   tickers,
		StartDate: startDate,
		EndDate:   endDate,
		Portfolio: portfolio,
		Metadata:  md,
		signals:   map[string]map[string]types.Signal{},
	}
}

// SetSignals merges sigs into the analyst's namespace. Existing tickers from a
// previous run sharing this State are kept unless the new batch re-scores
// them.
func (s *State) SetSignals(analyst string, sigs map[string]types.Signal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns := s.signals[analyst]
	if ns == nil {
		ns = make(map[string]types.Signal, len(sigs))
		s.signals[analyst] = ns
	}
	for ticker, sig := range sigs {
		ns[ticker] = sig
	}
}

// Signals returns a copy of the full analyst->ticker->signal map.
func (s *State) Signals() map[string]map[string]types.Signal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]map[string]types.Signal, len(s.signals))
	for analyst, ns := range s.signals {
		cp := make(map[string]types.Signal, len(ns))
		for ticker, sig := range ns {
			cp[ticker] = sig
		}
		out[analyst] = cp
	}
	return out
}

// SignalsFor returns the analyst->signal map for one ticker.
func (s *State) SignalsFor(ticker string) map[string]types.Signal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]types.Signal{}
	for analyst, ns := range s.signals {
		if sig, ok := ns[ticker]; ok {
			out[analyst] = sig
		}
	}
	return out
}
