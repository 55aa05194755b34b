// Package memory provides the append-only step history of a task session.
package memory

import (
	"maps"
	"sync"

	"shopagent/internal/tool"
)

// Action is a proposed tool invocation: an action name plus its
// loosely-typed parameters.
type Action struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

// Observation is the recorded outcome of one executed step: either the
// dispatcher's result envelope, or the reason the proposal itself was
// rejected before reaching the store.
type Observation struct {
	Result *tool.Result `json:"result,omitempty"`

	// ProposalError is set when the proposal was a caller-contract failure
	// (unknown action, uncoercible parameters) and Result is nil.
	ProposalError string `json:"proposal_error,omitempty"`
}

// Rejected reports whether the proposal never reached the store.
func (o Observation) Rejected() bool { return o.Result == nil }

// Succeeded reports whether the step executed and the domain accepted it.
func (o Observation) Succeeded() bool { return o.Result != nil && o.Result.Success }

// Step is an immutable record of one loop iteration. Numbers are 1-based and
// monotonically increasing within a history.
type Step struct {
	Number      int         `json:"number"`
	Action      Action      `json:"action"`
	Rationale   string      `json:"rationale"`
	Observation Observation `json:"observation"`
}

// History is an ordered, append-only log of Steps. It is thread-safe and
// never mutates or removes a recorded step.
type History struct {
	mu    sync.RWMutex
	steps []Step
}

// NewHistory creates an empty History.
func NewHistory() *History {
	return &History{steps: make([]Step, 0)}
}

// Record appends a new step with the next step number and returns it. The
// action's parameter map is cloned so later mutation by the caller cannot
// alter the record.
func (h *History) Record(action Action, rationale string, obs Observation) Step {
	h.mu.Lock()
	defer h.mu.Unlock()

	if action.Params != nil {
		action.Params = maps.Clone(action.Params)
	}
	step := Step{
		Number:      len(h.steps) + 1,
		Action:      action,
		Rationale:   rationale,
		Observation: obs,
	}
	h.steps = append(h.steps, step)
	return step
}

// Snapshot returns a copy of all recorded steps in order.
func (h *History) Snapshot() []Step {
	h.mu.RLock()
	defer h.mu.RUnlock()

	steps := make([]Step, len(h.steps))
	copy(steps, h.steps)
	return steps
}

// Last returns the most recent step, if any.
func (h *History) Last() (Step, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.steps) == 0 {
		return Step{}, false
	}
	return h.steps[len(h.steps)-1], true
}

// Len returns the number of recorded steps.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.steps)
}
