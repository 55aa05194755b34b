package proposer

import (
	"context"
	"sync"

	"shopagent/internal/memory"
)

// Scripted replays a fixed sequence of proposals in order, ignoring the goal
// and history. Once the script is exhausted it signals goal achieved. Useful
// for deterministic executor tests and canned demos.
type Scripted struct {
	mu        sync.Mutex
	proposals []Proposal
	next      int
}

// NewScripted creates a Scripted proposer that replays the given proposals.
func NewScripted(proposals ...Proposal) *Scripted {
	return &Scripted{proposals: proposals}
}

// ProposeNext implements Proposer.
func (s *Scripted) ProposeNext(_ context.Context, _ string, _ []memory.Step) (Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.proposals) {
		return Proposal{GoalAchieved: true, Rationale: "script exhausted"}, nil
	}
	p := s.proposals[s.next]
	s.next++
	return p, nil
}
