// Package team moves a weather query through intent extraction, data
// retrieval and presentation under a pluggable routing strategy.
package team

import (
	"encoding/json"
	"fmt"

	"github.com/i474232898/weather-team/internal/weather"
)

// Speaker names. Worker names double as handoff targets.
const (
	SpeakerUser         = "user"
	SpeakerIntent       = "intent"
	SpeakerRetrieval    = "retrieval"
	SpeakerPresentation = "presentation"
)

// Stages lists the worker names in pipeline order.
var Stages = []string{SpeakerIntent, SpeakerRetrieval, SpeakerPresentation}

// Turn is one entry of a run's append-only log.
type Turn struct {
	Speaker string `json:"speaker"`
	Content string `json:"content"`
	// Handoff optionally names who should act next; SpeakerUser returns
	// control to the caller.
	Handoff string `json:"handoff,omitempty"`
}

// State is the pipeline position derived from the turn log.
type State int

const (
	AwaitingIntent State = iota
	AwaitingRetrieval
	AwaitingPresentation
	Done
)

func (s State) String() string {
	switch s {
	case AwaitingIntent:
		return "awaiting_intent"
	case AwaitingRetrieval:
		return "awaiting_retrieval"
	case AwaitingPresentation:
		return "awaiting_presentation"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// StateOf derives the pipeline state from the last worker turn.
func StateOf(log []Turn) State {
	for i := len(log) - 1; i >= 0; i-- {
		switch log[i].Speaker {
		case SpeakerIntent:
			return AwaitingRetrieval
		case SpeakerRetrieval:
			return AwaitingPresentation
		case SpeakerPresentation:
			return Done
		}
	}
	return AwaitingIntent
}

// Horizons an intent can ask for.
const (
	HorizonToday    = "today"
	HorizonTomorrow = "tomorrow"
	HorizonFuture   = "future"
)

// DefaultFutureDays is used when a multi-day query names no day count.
const DefaultFutureDays = 3

// Intent is the structured content of an intent turn.
type Intent struct {
	Place   string `json:"place"`
	Horizon string `json:"horizon"`
	Days    int    `json:"days,omitempty"`
}

// Normalize fills defaults and clamps the day count.
func (i Intent) Normalize() Intent {
	switch i.Horizon {
	case HorizonTomorrow, HorizonFuture:
	default:
		i.Horizon = HorizonToday
	}
	if i.Horizon == HorizonFuture {
		if i.Days <= 0 {
			i.Days = DefaultFutureDays
		}
		i.Days = weather.ClampHorizon(i.Days)
	} else {
		i.Days = 0
	}
	return i
}

// FetchDays is how many days must be fetched to answer the intent.
func (i Intent) FetchDays() int {
	switch i.Horizon {
	case HorizonTomorrow:
		return 2
	case HorizonFuture:
		return weather.ClampHorizon(i.Days)
	default:
		return 1
	}
}

// DayIndex is the single day the intent asks about; zero for listings.
func (i Intent) DayIndex() int {
	if i.Horizon == HorizonTomorrow {
		return 1
	}
	return 0
}

// Retrieval is the structured content of a retrieval turn.
type Retrieval struct {
	Intent
	Forecast weather.ForecastResult `json:"forecast"`
}

func encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// lastBy returns the most recent turn spoken by speaker.
func lastBy(log []Turn, speaker string) (Turn, bool) {
	for i := len(log) - 1; i >= 0; i-- {
		if log[i].Speaker == speaker {
			return log[i], true
		}
	}
	return Turn{}, false
}

// IntentFrom decodes the latest intent turn of log.
func IntentFrom(log []Turn) (Intent, error) {
	t, ok := lastBy(log, SpeakerIntent)
	if !ok {
		return Intent{}, fmt.Errorf("no intent turn in log")
	}
	var in Intent
	if err := json.Unmarshal([]byte(t.Content), &in); err != nil {
		return Intent{}, fmt.Errorf("decode intent turn: %w", err)
	}
	return in.Normalize(), nil
}

// RetrievalFrom decodes the latest retrieval turn of log.
func RetrievalFrom(log []Turn) (Retrieval, error) {
	t, ok := lastBy(log, SpeakerRetrieval)
	if !ok {
		return Retrieval{}, fmt.Errorf("no retrieval turn in log")
	}
	var r Retrieval
	if err := json.Unmarshal([]byte(t.Content), &r); err != nil {
		return Retrieval{}, fmt.Errorf("decode retrieval turn: %w", err)
	}
	return r, nil
}

// QueryFrom returns the caller's query, the content of the first user turn.
func QueryFrom(log []Turn) string {
	for _, t := range log {
		if t.Speaker == SpeakerUser {
			return t.Content
		}
	}
	return ""
}
