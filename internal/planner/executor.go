// Package planner implements the step-wise planning/execution loop: it asks
// a proposer for the next action, executes it through the dispatcher, folds
// the observation into the step history, and stops on goal achievement or
// budget exhaustion.
package planner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"shopagent/internal/memory"
	"shopagent/internal/proposer"
	"shopagent/internal/tool"
)

// DefaultStepBudget bounds a task when no budget is configured.
const DefaultStepBudget = 20

// State is a phase of the execution loop.
type State string

const (
	// StatePlanning means the executor is asking the proposer for an action.
	StatePlanning State = "planning"
	// StateExecuting means a proposed action is being dispatched.
	StateExecuting State = "executing"
	// StateObserving means the result is being folded into the history.
	StateObserving State = "observing"
	// StateDone is the terminal success state: the goal was achieved.
	StateDone State = "done"
	// StateAborted is the terminal non-success state: the step budget ran
	// out first. It is a defined outcome, not an error.
	StateAborted State = "aborted"
)

// GoalPredicate decides, from the step history, whether the goal is met.
type GoalPredicate func(history []memory.Step) bool

// DefaultGoalPredicate treats a successful checkout as goal achievement. An
// empty basket cannot check out, so a successful checkout always committed
// at least one item.
func DefaultGoalPredicate(history []memory.Step) bool {
	for _, step := range history {
		if step.Action.Name == tool.ActionCheckoutBasket && step.Observation.Succeeded() {
			return true
		}
	}
	return false
}

// Config holds configuration for creating an Executor.
type Config struct {
	Proposer   proposer.Proposer
	Dispatcher *tool.Dispatcher

	// StepBudget caps the number of executed steps; zero means
	// DefaultStepBudget.
	StepBudget int

	// GoalAchieved overrides DefaultGoalPredicate when set.
	GoalAchieved GoalPredicate

	// Logger receives per-step progress; nil disables logging.
	Logger *slog.Logger
}

// Outcome is the result of a task run: the terminal state and the full step
// history for diagnosis.
type Outcome struct {
	SessionID    string
	Goal         string
	State        State
	GoalAchieved bool
	Steps        []memory.Step
}

// Executor drives the planning loop. It is deliberately a dumb, auditable
// driver: domain failures are folded into the history like any other
// observation, and all recovery intelligence stays with the proposer.
type Executor struct {
	proposer     proposer.Proposer
	dispatcher   *tool.Dispatcher
	budget       int
	goalAchieved GoalPredicate
	logger       *slog.Logger
}

// New creates an Executor from the given configuration.
func New(cfg Config) (*Executor, error) {
	if cfg.Proposer == nil {
		return nil, errors.New("proposer is required")
	}
	if cfg.Dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	budget := cfg.StepBudget
	if budget <= 0 {
		budget = DefaultStepBudget
	}
	predicate := cfg.GoalAchieved
	if predicate == nil {
		predicate = DefaultGoalPredicate
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Executor{
		proposer:     cfg.Proposer,
		dispatcher:   cfg.Dispatcher,
		budget:       budget,
		goalAchieved: predicate,
		logger:       logger,
	}, nil
}

// ExecuteTask runs the loop for one task session until the goal is achieved
// or the step budget is exhausted. Each iteration moves through
// Planning -> Executing -> Observing; the session ends in StateDone or
// StateAborted. The returned error is non-nil only when the proposer itself
// fails; domain and contract failures of proposed actions are recorded in
// the history instead.
func (e *Executor) ExecuteTask(ctx context.Context, goal string) (*Outcome, error) {
	session := &session{
		id:      uuid.NewString(),
		goal:    goal,
		history: memory.NewHistory(),
	}
	e.logger.Info("task started", "session", session.id, "goal", goal, "budget", e.budget)

	for session.history.Len() < e.budget {
		session.state = StatePlanning
		proposal, err := e.proposer.ProposeNext(ctx, goal, session.history.Snapshot())
		if err != nil {
			return nil, fmt.Errorf("propose next action: %w", err)
		}
		if proposal.GoalAchieved {
			e.logger.Info("proposer signaled goal achieved", "session", session.id, "rationale", proposal.Rationale)
			return session.finish(StateDone, true), nil
		}

		session.state = StateExecuting
		result, err := e.dispatcher.Dispatch(ctx, proposal.Action.Name, proposal.Action.Params)

		session.state = StateObserving
		var obs memory.Observation
		if err != nil {
			// Malformed proposal: recorded for the proposer to correct,
			// never fatal.
			obs = memory.Observation{ProposalError: err.Error()}
		} else {
			obs = memory.Observation{Result: &result}
		}
		step := session.history.Record(proposal.Action, proposal.Rationale, obs)
		e.logStep(session.id, step)

		if e.goalAchieved(session.history.Snapshot()) {
			return session.finish(StateDone, true), nil
		}
	}

	e.logger.Info("step budget exhausted", "session", session.id, "budget", e.budget)
	return session.finish(StateAborted, false), nil
}

func (e *Executor) logStep(sessionID string, step memory.Step) {
	switch {
	case step.Observation.Rejected():
		e.logger.Warn("proposal rejected", "session", sessionID, "step", step.Number,
			"action", step.Action.Name, "error", step.Observation.ProposalError)
	case !step.Observation.Succeeded():
		e.logger.Info("action failed", "session", sessionID, "step", step.Number,
			"action", step.Action.Name, "code", step.Observation.Result.ErrorCode,
			"error", step.Observation.Result.Error)
	default:
		e.logger.Info("action executed", "session", sessionID, "step", step.Number,
			"action", step.Action.Name)
	}
}

// session is the aggregate state of one task run. Sessions are terminal:
// once finished they are not resumable.
type session struct {
	id      string
	goal    string
	state   State
	history *memory.History
}

func (s *session) finish(state State, goalAchieved bool) *Outcome {
	s.state = state
	return &Outcome{
		SessionID:    s.id,
		Goal:         s.goal,
		State:        state,
		GoalAchieved: goalAchieved,
		Steps:        s.history.Snapshot(),
	}
}
