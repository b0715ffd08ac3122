package team

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-team/internal/weather"
)

// Defaults for Options.
const (
	DefaultMaxTurns     = 8
	DefaultStageTimeout = 60 * time.Second
)

// Options tune an Engine.
type Options struct {
	// MaxTurns caps worker turns per run.
	MaxTurns int
	// StageTimeout bounds a single worker turn.
	StageTimeout time.Duration
}

// Engine runs queries through its workers. It keeps no per-run state, so
// one Engine serves concurrent runs.
type Engine struct {
	workers      map[string]Worker
	maxTurns     int
	stageTimeout time.Duration
}

// NewEngine registers workers by name. A later worker with the same name
// replaces an earlier one.
func NewEngine(workers []Worker, opts Options) *Engine {
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}
	if opts.StageTimeout <= 0 {
		opts.StageTimeout = DefaultStageTimeout
	}
	m := make(map[string]Worker, len(workers))
	for _, w := range workers {
		m[w.Name()] = w
	}
	return &Engine{workers: m, maxTurns: opts.MaxTurns, stageTimeout: opts.StageTimeout}
}

// MaxTurns returns the worker-turn ceiling.
func (e *Engine) MaxTurns() int { return e.maxTurns }

// Result describes a finished run, successful or not.
type Result struct {
	RunID  string `json:"runId"`
	Report string `json:"report,omitempty"`
	State  State  `json:"-"`
	Turns  []Turn `json:"turns"`

	// StoppedAt is the stage a failed run was waiting on. It is only set
	// when Run returns an error.
	StoppedAt State `json:"-"`
}

// Run processes query under strategy. It returns either a report or an
// error; an error never comes with a report. The Result carries the turn
// log in both cases.
func (e *Engine) Run(ctx context.Context, query string, strategy Strategy) (Result, error) {
	res := Result{
		RunID: uuid.NewString(),
		Turns: []Turn{{Speaker: SpeakerUser, Content: query}},
	}
	log.Printf("INFO: run %s started with strategy %s", res.RunID, strategy.Name())

	fail := func(err error) (Result, error) {
		res.State = Done
		res.StoppedAt = StateOf(res.Turns)
		log.Printf("WARN: run %s stopped at %s after %d turns: %v", res.RunID, res.StoppedAt, len(res.Turns)-1, err)
		return res, err
	}

	workerTurns := 0
	for {
		if err := ctx.Err(); err != nil {
			return fail(cancelled(err))
		}

		d, err := strategy.Next(ctx, res.Turns)
		if err != nil {
			if ctx.Err() != nil {
				return fail(cancelled(ctx.Err()))
			}
			return fail(fmt.Errorf("strategy %s: %w", strategy.Name(), err))
		}
		if d.Done {
			break
		}

		if workerTurns >= e.maxTurns {
			return fail(fmt.Errorf("%w: %d turns without completion", weather.ErrPipelineExhausted, workerTurns))
		}

		w, ok := e.workers[d.Speaker]
		if !ok {
			return fail(fmt.Errorf("strategy %s chose unknown worker %q", strategy.Name(), d.Speaker))
		}

		// No stage starts once cancellation is observed.
		if err := ctx.Err(); err != nil {
			return fail(cancelled(err))
		}

		turn, err := e.produce(ctx, w, res.Turns)
		if err != nil {
			if errors.Is(ctx.Err(), context.Canceled) {
				return fail(cancelled(ctx.Err()))
			}
			return fail(err)
		}
		if turn.Speaker == "" {
			turn.Speaker = w.Name()
		}
		res.Turns = append(res.Turns, turn)
		workerTurns++
		log.Printf("DEBUG: run %s turn %d by %s", res.RunID, workerTurns, turn.Speaker)
	}

	last := res.Turns[len(res.Turns)-1]
	if last.Speaker == SpeakerUser {
		return fail(fmt.Errorf("strategy %s finished before any worker spoke", strategy.Name()))
	}
	res.State = Done
	res.Report = last.Content
	log.Printf("INFO: run %s finished after %d turns", res.RunID, workerTurns)
	return res, nil
}

func (e *Engine) produce(ctx context.Context, w Worker, turns []Turn) (Turn, error) {
	stageCtx, cancel := context.WithTimeout(ctx, e.stageTimeout)
	defer cancel()

	// Workers get a copy so they cannot rewrite history.
	snapshot := make([]Turn, len(turns))
	copy(snapshot, turns)
	return w.Produce(stageCtx, snapshot)
}

func cancelled(cause error) error {
	return fmt.Errorf("%w: %v", weather.ErrCancelled, cause)
}
