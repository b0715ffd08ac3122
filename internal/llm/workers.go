package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/i474232898/weather-team/internal/team"
)

const intentSystem = `你是天气查询的意图解析器。从用户的话中提取城市和时间范围，只输出 JSON：
{"place": "城市名", "horizon": "today|tomorrow|future", "days": 数字}
- "今天"/"现在" → today；"明天" → tomorrow；"未来N天"/"这周" → future，days 为天数（默认 3，最多 15）
- 城市名保持用户原文，中国城市使用中文名；没有提到城市时 place 为空字符串`

// IntentWorker extracts the intent with the model and falls back to the
// deterministic worker when the model fails or answers nonsense.
type IntentWorker struct {
	client   Client
	fallback team.Worker
}

func NewIntentWorker(client Client, fallback team.Worker) *IntentWorker {
	return &IntentWorker{client: client, fallback: fallback}
}

func (w *IntentWorker) Name() string { return team.SpeakerIntent }

func (w *IntentWorker) Produce(ctx context.Context, turns []team.Turn) (team.Turn, error) {
	query := team.QueryFrom(turns)

	raw, err := w.client.AnswerJSON(ctx, intentSystem, query)
	if err != nil {
		log.Printf("WARN: llm intent failed, using keyword parser: %v", err)
		return w.fallback.Produce(ctx, turns)
	}

	var in team.Intent
	if err := json.Unmarshal([]byte(raw), &in); err != nil || strings.TrimSpace(in.Place) == "" {
		log.Printf("WARN: llm intent unusable (%q), using keyword parser", raw)
		return w.fallback.Produce(ctx, turns)
	}
	in.Place = strings.TrimSpace(in.Place)

	b, err := json.Marshal(in.Normalize())
	if err != nil {
		return team.Turn{}, err
	}
	return team.Turn{Speaker: team.SpeakerIntent, Content: string(b), Handoff: team.SpeakerRetrieval}, nil
}

const presentationSystem = `你是天气播报员。把给定的天气报告润色成友好的中文回复。
必须保留报告中的每一个数字、日期、单位和 emoji 行，不得编造数据，不要添加额外的天气信息。`

// PresentationWorker renders the report deterministically and asks the
// model to polish the wording. The plain report is used when the model fails.
type PresentationWorker struct {
	client   Client
	tools    team.Tools
	markDone bool
}

func NewPresentationWorker(client Client, tools team.Tools, markDone bool) *PresentationWorker {
	return &PresentationWorker{client: client, tools: tools, markDone: markDone}
}

func (w *PresentationWorker) Name() string { return team.SpeakerPresentation }

func (w *PresentationWorker) Produce(ctx context.Context, turns []team.Turn) (team.Turn, error) {
	report, err := team.RenderLatest(w.tools, turns)
	if err != nil {
		return team.Turn{}, err
	}

	polished, err := w.client.Answer(ctx, presentationSystem, report)
	if err != nil || strings.TrimSpace(polished) == "" {
		log.Printf("WARN: llm presentation failed, using plain report: %v", err)
		polished = report
	}
	if w.markDone && !strings.Contains(polished, team.CompletionPhrase) {
		polished += "\n" + team.CompletionPhrase
	}
	return team.Turn{Speaker: team.SpeakerPresentation, Content: polished, Handoff: team.SpeakerUser}, nil
}

const plannerSystem = `你是天气查询团队的调度者。团队成员：
- intent：解析用户意图（城市、时间范围）
- retrieval：根据意图查询天气数据
- presentation：把天气数据整理成最终报告
根据目前的对话记录决定下一步由谁发言。报告已经生成时任务完成。
只输出 JSON：{"next": "intent|retrieval|presentation", "done": true|false}`

// Planner lets the model choose the next worker for the auto-plan strategy.
// Malformed answers defer to the deterministic sequence.
type Planner struct {
	client   Client
	fallback team.Planner
}

func NewPlanner(client Client) *Planner {
	return &Planner{client: client, fallback: team.SequencePlanner{}}
}

func (p *Planner) Plan(ctx context.Context, turns []team.Turn, workers []string) (team.Decision, error) {
	raw, err := p.client.AnswerJSON(ctx, plannerSystem, transcript(turns, workers))
	if err != nil {
		return team.Decision{}, fmt.Errorf("llm planner: %w", err)
	}

	var d team.Decision
	if err := json.Unmarshal([]byte(raw), &d); err != nil || (!d.Done && d.Speaker == "") {
		log.Printf("WARN: llm planner answer unusable (%q), following the default sequence", raw)
		return p.fallback.Plan(ctx, turns, workers)
	}
	d.Speaker = strings.ToLower(strings.TrimSpace(d.Speaker))
	return d, nil
}

// transcript renders the turn log for the planner prompt. Long contents
// are cut so the prompt stays small.
func transcript(turns []team.Turn, workers []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "可选成员：%s\n对话记录：\n", strings.Join(workers, ", "))
	for i, t := range turns {
		content := t.Content
		if r := []rune(content); len(r) > 300 {
			content = string(r[:300]) + "…"
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, t.Speaker, content)
	}
	return b.String()
}
