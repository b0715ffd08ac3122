package team

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Decision is a strategy's answer: either the next speaker or Done.
type Decision struct {
	Speaker string `json:"next"`
	Done    bool   `json:"done"`
}

// Strategy decides who speaks next. It reads only the turn log.
type Strategy interface {
	Name() string
	Next(ctx context.Context, turns []Turn) (Decision, error)
}

// Strategy names accepted by NewStrategy.
const (
	StrategySelector = "selector"
	StrategyHandoff  = "handoff"
	StrategyAutoPlan = "autoplan"
)

// NewStrategy builds a strategy by name. planner is used by the auto-plan
// strategy only and may be nil otherwise.
func NewStrategy(name string, planner Planner) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategySelector, "centralized":
		return Selector{}, nil
	case StrategyHandoff, "swarm", "decentralized":
		return NewHandoff(""), nil
	case StrategyAutoPlan, "magentic", "planner":
		if planner == nil {
			planner = SequencePlanner{}
		}
		return NewAutoPlan(planner), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// Selector is the centralized strategy: a pure function of the log that
// walks intent, retrieval and presentation in order.
type Selector struct{}

func (Selector) Name() string { return StrategySelector }

func (Selector) Next(_ context.Context, turns []Turn) (Decision, error) {
	if len(turns) <= 1 {
		return Decision{Speaker: SpeakerIntent}, nil
	}
	switch turns[len(turns)-1].Speaker {
	case SpeakerIntent:
		return Decision{Speaker: SpeakerRetrieval}, nil
	case SpeakerRetrieval:
		return Decision{Speaker: SpeakerPresentation}, nil
	default:
		return Decision{Done: true}, nil
	}
}

// DefaultTerminalKeyword ends a handoff run when it appears in a turn.
const DefaultTerminalKeyword = "TERMINATE"

// Handoff is the decentralized strategy: each turn names its successor.
// A turn without a directive keeps the floor with its speaker.
type Handoff struct {
	keyword string
}

// NewHandoff creates a Handoff strategy. An empty keyword selects
// DefaultTerminalKeyword.
func NewHandoff(keyword string) Handoff {
	if keyword == "" {
		keyword = DefaultTerminalKeyword
	}
	return Handoff{keyword: keyword}
}

func (Handoff) Name() string { return StrategyHandoff }

func (h Handoff) Next(_ context.Context, turns []Turn) (Decision, error) {
	if len(turns) <= 1 {
		return Decision{Speaker: SpeakerIntent}, nil
	}
	for _, t := range turns[1:] {
		if strings.Contains(t.Content, h.keyword) {
			return Decision{Done: true}, nil
		}
	}

	last := turns[len(turns)-1]
	switch last.Handoff {
	case SpeakerUser:
		return Decision{Done: true}, nil
	case "":
		return Decision{Speaker: last.Speaker}, nil
	default:
		return Decision{Speaker: last.Handoff}, nil
	}
}

// Planner picks the next worker, or Done, for the auto-plan strategy.
type Planner interface {
	Plan(ctx context.Context, turns []Turn, workers []string) (Decision, error)
}

// AutoPlan consults a Planner before the first turn and after every turn.
// Its liveness bound is the engine's turn ceiling.
type AutoPlan struct {
	planner Planner
	workers []string
}

func NewAutoPlan(planner Planner) AutoPlan {
	return AutoPlan{planner: planner, workers: Stages}
}

func (AutoPlan) Name() string { return StrategyAutoPlan }

func (a AutoPlan) Next(ctx context.Context, turns []Turn) (Decision, error) {
	d, err := a.planner.Plan(ctx, turns, a.workers)
	if err != nil {
		return Decision{}, fmt.Errorf("planner: %w", err)
	}
	if d.Done {
		return Decision{Done: true}, nil
	}
	for _, w := range a.workers {
		if w == d.Speaker {
			log.Printf("DEBUG: planner chose %s after %d turns", d.Speaker, len(turns))
			return d, nil
		}
	}
	return Decision{}, fmt.Errorf("planner chose unknown worker %q", d.Speaker)
}

// SequencePlanner plans deterministically from the pipeline state.
type SequencePlanner struct{}

func (SequencePlanner) Plan(_ context.Context, turns []Turn, _ []string) (Decision, error) {
	switch StateOf(turns) {
	case AwaitingIntent:
		return Decision{Speaker: SpeakerIntent}, nil
	case AwaitingRetrieval:
		return Decision{Speaker: SpeakerRetrieval}, nil
	case AwaitingPresentation:
		return Decision{Speaker: SpeakerPresentation}, nil
	default:
		return Decision{Done: true}, nil
	}
}
