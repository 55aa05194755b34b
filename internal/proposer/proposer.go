// Package proposer defines the next-action capability consumed by the
// planning executor, together with deterministic rule-based implementations.
// The executor imposes no constraints on how a Proposer decides: it may be a
// scripted sequence, a rule engine, or an adapter over a language model.
package proposer

import (
	"context"

	"shopagent/internal/memory"
)

// Proposal is one decision from a Proposer: either the next action to
// execute, or a goal-achieved signal.
type Proposal struct {
	GoalAchieved bool
	Rationale    string
	Action       memory.Action // ignored when GoalAchieved is set
}

// Proposer supplies the next action for a task given the goal description
// and the full step history so far. Implementations may be non-deterministic
// and may propose invalid actions; the dispatcher rejects those without
// crashing the loop.
type Proposer interface {
	ProposeNext(ctx context.Context, goal string, history []memory.Step) (Proposal, error)
}

// Func adapts a plain function to the Proposer interface.
type Func func(ctx context.Context, goal string, history []memory.Step) (Proposal, error)

// ProposeNext implements Proposer.
func (f Func) ProposeNext(ctx context.Context, goal string, history []memory.Step) (Proposal, error) {
	return f(ctx, goal, history)
}
