package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-team/internal/team"
	"github.com/i474232898/weather-team/internal/weather"
)

// fakeClient returns canned answers and records prompts.
type fakeClient struct {
	json    string
	text    string
	err     error
	systems []string
	prompts []string
}

func (f *fakeClient) Answer(_ context.Context, system, user string) (string, error) {
	f.systems = append(f.systems, system)
	f.prompts = append(f.prompts, user)
	return f.text, f.err
}

func (f *fakeClient) AnswerJSON(_ context.Context, system, user string) (string, error) {
	f.systems = append(f.systems, system)
	f.prompts = append(f.prompts, user)
	return f.json, f.err
}

func (f *fakeClient) Model() string { return "fake" }

// staticWorker answers with a fixed turn.
type staticWorker struct{ turn team.Turn }

func (s staticWorker) Name() string { return s.turn.Speaker }

func (s staticWorker) Produce(context.Context, []team.Turn) (team.Turn, error) { return s.turn, nil }

func decodeIntent(t *testing.T, content string) team.Intent {
	t.Helper()
	var in team.Intent
	require.NoError(t, json.Unmarshal([]byte(content), &in))
	return in
}

func TestIntentWorker(t *testing.T) {
	fallback := staticWorker{turn: team.Turn{Speaker: team.SpeakerIntent, Content: `{"place":"上海","horizon":"today"}`}}
	log := []team.Turn{{Speaker: team.SpeakerUser, Content: "杭州这周天气"}}

	good := &fakeClient{json: `{"place":" 杭州 ","horizon":"future","days":40}`}
	turn, err := NewIntentWorker(good, fallback).Produce(context.Background(), log)
	require.NoError(t, err)
	assert.Equal(t, team.SpeakerRetrieval, turn.Handoff)
	assert.Equal(t, team.Intent{Place: "杭州", Horizon: team.HorizonFuture, Days: 15}, decodeIntent(t, turn.Content))
	assert.Equal(t, []string{"杭州这周天气"}, good.prompts)
	assert.Equal(t, []string{intentSystem}, good.systems)

	for name, c := range map[string]*fakeClient{
		"malformed": {json: `not json`},
		"no place":  {json: `{"place":"","horizon":"today"}`},
		"error":     {err: errors.New("quota")},
	} {
		turn, err := NewIntentWorker(c, fallback).Produce(context.Background(), log)
		require.NoError(t, err, name)
		assert.Equal(t, "上海", decodeIntent(t, turn.Content).Place, name)
	}
}

// renderTools renders a fixed report.
type renderTools struct{}

func (renderTools) Forecast(context.Context, string, int) (weather.ForecastResult, error) {
	return weather.ForecastResult{}, errors.New("not used")
}

func (renderTools) Render(_ weather.ForecastResult, place string, _, _ int) (string, error) {
	return "📍 " + place, nil
}

func (renderTools) LocateSelf(context.Context) (string, error) { return "", errors.New("not used") }

func retrievalLog() []team.Turn {
	return []team.Turn{
		{Speaker: team.SpeakerUser, Content: "q"},
		{Speaker: team.SpeakerIntent, Content: `{"place":"北京","horizon":"today"}`},
		{Speaker: team.SpeakerRetrieval, Content: `{"place":"北京","horizon":"today","forecast":{"status":"ok","days":[]}}`},
	}
}

func TestPresentationWorker(t *testing.T) {
	polished := &fakeClient{text: "您好！📍 北京"}
	turn, err := NewPresentationWorker(polished, renderTools{}, true).Produce(context.Background(), retrievalLog())
	require.NoError(t, err)
	assert.Equal(t, "您好！📍 北京\n"+team.CompletionPhrase, turn.Content)
	assert.Equal(t, team.SpeakerUser, turn.Handoff)
	assert.Equal(t, []string{"📍 北京"}, polished.prompts)
	assert.Equal(t, []string{presentationSystem}, polished.systems)

	failing := &fakeClient{err: errors.New("timeout")}
	turn, err = NewPresentationWorker(failing, renderTools{}, false).Produce(context.Background(), retrievalLog())
	require.NoError(t, err)
	assert.Equal(t, "📍 北京", turn.Content)
}

func TestPlanner(t *testing.T) {
	log := []team.Turn{{Speaker: team.SpeakerUser, Content: "q"}, {Speaker: team.SpeakerIntent, Content: "{}"}}

	next := &fakeClient{json: `{"next":"Retrieval","done":false}`}
	d, err := NewPlanner(next).Plan(context.Background(), log, team.Stages)
	require.NoError(t, err)
	assert.Equal(t, team.Decision{Speaker: team.SpeakerRetrieval}, d)
	assert.Equal(t, []string{plannerSystem}, next.systems)
	require.Len(t, next.prompts, 1)
	assert.Contains(t, next.prompts[0], "intent, retrieval, presentation")

	d, err = NewPlanner(&fakeClient{json: `{"done":true}`}).Plan(context.Background(), log, team.Stages)
	require.NoError(t, err)
	assert.True(t, d.Done)

	d, err = NewPlanner(&fakeClient{json: `???`}).Plan(context.Background(), log, team.Stages)
	require.NoError(t, err)
	assert.Equal(t, team.Decision{Speaker: team.SpeakerRetrieval}, d, "falls back to the sequence")

	_, err = NewPlanner(&fakeClient{err: errors.New("down")}).Plan(context.Background(), log, team.Stages)
	assert.Error(t, err)
}

func TestTranscript(t *testing.T) {
	long := make([]rune, 400)
	for i := range long {
		long[i] = '雨'
	}
	out := transcript([]team.Turn{{Speaker: "user", Content: string(long)}}, team.Stages)
	assert.Contains(t, out, "intent, retrieval, presentation")
	assert.Contains(t, out, "…")
	assert.NotContains(t, out, string(long))
}

func TestOpenAIClient_AnswerJSON(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"` + "```json\\n{\\\"next\\\":\\\"intent\\\"}\\n```" + `"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c, err := New("sk-test", "", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.Model())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := c.AnswerJSON(ctx, "sys", "hi")
	require.NoError(t, err)
	assert.Equal(t, `{"next":"intent"}`, out)

	msgs, _ := gotBody["messages"].([]any)
	require.Len(t, msgs, 2)
	first, _ := msgs[0].(map[string]any)
	second, _ := msgs[1].(map[string]any)
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "sys", first["content"])
	assert.Equal(t, "user", second["role"])
	assert.Equal(t, "hi", second["content"])
	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
	rf, _ := gotBody["response_format"].(map[string]any)
	assert.Equal(t, "json_object", rf["type"])
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New(" ", "", "")
	assert.Error(t, err)
}
