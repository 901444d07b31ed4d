package ui

import (
	"github.com/higenie/higenie/bridge"
	"github.com/higenie/higenie/config"
)

// Ordering decides which resolution wins when calls overlap.
type Ordering string

const (
	// LatestIssued applies only the response to the most recent submission;
	// responses to superseded submissions are dropped.
	LatestIssued Ordering = config.OrderingLatestIssued
	// LastResolved applies every response as it arrives, so whichever call
	// resolves last wins.
	LastResolved Ordering = config.OrderingLastResolved
)

// ParseOrdering maps a config value to an Ordering, defaulting to LatestIssued.
func ParseOrdering(s string) Ordering {
	if Ordering(s) == LastResolved {
		return LastResolved
	}
	return LatestIssued
}

// State is the whole view state of the form. It is a plain value: every
// transition returns a new State and never touches the bridge.
type State struct {
	Input    string `json:"input"`
	Response string `json:"response"`
	Err      string `json:"error,omitempty"`
	Seq      uint64 `json:"seq"`     // generation of the latest submission
	Applied  uint64 `json:"applied"` // generation of the last applied resolution
	Pending  int    `json:"pending"`
	InfoOpen bool   `json:"infoOpen"`
}

// Call is a submission to send over the bridge.
type Call struct {
	Seq  uint64
	Name string
}

// SetInput replaces the input text with the control's current value.
func (s State) SetInput(text string) State {
	s.Input = text
	return s
}

// Submit starts a new generation carrying the current input verbatim.
// Input is not cleared and empty input is submitted like any other.
func (s State) Submit() (State, Call) {
	s.Seq++
	s.Pending++
	return s, Call{Seq: s.Seq, Name: s.Input}
}

// Resolve applies the outcome of call seq. A failure keeps Response as it was
// and records the reason in Err; a success replaces Response and clears Err.
func (s State) Resolve(seq uint64, res bridge.Result, order Ordering) State {
	if s.Pending > 0 {
		s.Pending--
	}
	if order != LastResolved && seq != s.Seq {
		return s
	}

	s.Applied = seq
	if !res.Ok() {
		s.Err = res.Err().Error()
		return s
	}
	s.Response = res.Value()
	s.Err = ""
	return s
}

// ToggleInfo opens or closes the info panel.
func (s State) ToggleInfo() State {
	s.InfoOpen = !s.InfoOpen
	return s
}

// CloseInfo closes the info panel.
func (s State) CloseInfo() State {
	s.InfoOpen = false
	return s
}

// Stale reports whether call seq has been superseded by a newer submission.
func (s State) Stale(seq uint64) bool {
	return seq != s.Seq
}
