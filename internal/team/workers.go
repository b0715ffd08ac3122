package team

import (
	"context"
	"fmt"
	"log"

	"github.com/i474232898/weather-team/internal/weather"
)

// Tools is the fixed capability surface stage workers call into.
// *weather.Service implements it.
type Tools interface {
	Forecast(ctx context.Context, place string, days int) (weather.ForecastResult, error)
	Render(result weather.ForecastResult, place string, dayIndex, days int) (string, error)
	LocateSelf(ctx context.Context) (string, error)
}

// Worker produces the next turn from the log so far.
type Worker interface {
	Name() string
	Produce(ctx context.Context, turns []Turn) (Turn, error)
}

// RetrievalWorker resolves the intent's place and fetches its forecast.
type RetrievalWorker struct {
	tools Tools
}

func NewRetrievalWorker(tools Tools) *RetrievalWorker {
	return &RetrievalWorker{tools: tools}
}

func (w *RetrievalWorker) Name() string { return SpeakerRetrieval }

// Produce fails with the resolver's or forecast source's error; nothing is
// fetched when the place does not resolve.
func (w *RetrievalWorker) Produce(ctx context.Context, turns []Turn) (Turn, error) {
	in, err := IntentFrom(turns)
	if err != nil {
		return Turn{}, fmt.Errorf("retrieval: %w", err)
	}

	result, err := w.tools.Forecast(ctx, in.Place, in.FetchDays())
	if err != nil {
		return Turn{}, fmt.Errorf("retrieval for %s: %w", in.Place, err)
	}

	content, err := encode(Retrieval{Intent: in, Forecast: result})
	if err != nil {
		return Turn{}, err
	}
	return Turn{Speaker: SpeakerRetrieval, Content: content, Handoff: SpeakerPresentation}, nil
}

// CompletionPhrase is appended to the final report when a worker is asked
// to mark completion explicitly.
const CompletionPhrase = "查询完成"

// PresentationWorker renders the retrieved forecast into the final report.
type PresentationWorker struct {
	tools    Tools
	markDone bool
}

// NewPresentationWorker creates a PresentationWorker. With markDone the
// report ends with CompletionPhrase on its own line.
func NewPresentationWorker(tools Tools, markDone bool) *PresentationWorker {
	return &PresentationWorker{tools: tools, markDone: markDone}
}

func (w *PresentationWorker) Name() string { return SpeakerPresentation }

func (w *PresentationWorker) Produce(ctx context.Context, turns []Turn) (Turn, error) {
	report, err := RenderLatest(w.tools, turns)
	if err != nil {
		return Turn{}, err
	}
	if w.markDone {
		report += "\n" + CompletionPhrase
	}
	return Turn{Speaker: SpeakerPresentation, Content: report, Handoff: SpeakerUser}, nil
}

// RenderLatest formats the latest retrieval turn of the log.
func RenderLatest(tools Tools, turns []Turn) (string, error) {
	r, err := RetrievalFrom(turns)
	if err != nil {
		return "", fmt.Errorf("presentation: %w", err)
	}

	days := 0
	if r.Horizon == HorizonFuture {
		days = r.Days
	}
	report, err := tools.Render(r.Forecast, r.Place, r.DayIndex(), days)
	if err != nil {
		log.Printf("WARN: rendering report for %s: %v", r.Place, err)
		return "", fmt.Errorf("presentation for %s: %w", r.Place, err)
	}
	return report, nil
}
