package team

import (
	"context"
	"log"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// PlaceFinder spots a known place name inside free text.
type PlaceFinder interface {
	FindIn(text string) (string, bool)
}

// horizon rule matched against the raw query. The first match wins; a
// capture group, when present, holds the day count.
type horizonRule struct {
	re      *regexp.Regexp
	horizon string
	days    int
}

var horizonRules = []horizonRule{
	{regexp.MustCompile(`(?:未来|接下来|最近)?\s*(\d{1,2}|[一二两三四五六七八九十]{1,3})\s*天`), HorizonFuture, 0},
	{regexp.MustCompile(`(?i)\bnext\s+(\d{1,2})\s+days?\b`), HorizonFuture, 0},
	{regexp.MustCompile(`(?i)\b(\d{1,2})[- ]day\b`), HorizonFuture, 0},
	{regexp.MustCompile(`(?i)(一周|这周|本周|这个星期|\bthis\s+week\b|\bnext\s+week\b|\bweek\b)`), HorizonFuture, 7},
	{regexp.MustCompile(`大后天`), HorizonFuture, 4},
	{regexp.MustCompile(`(?i)(后天|\bday\s+after\s+tomorrow\b)`), HorizonFuture, 3},
	{regexp.MustCompile(`(?i)(明天|明日|\btomorrow\b)`), HorizonTomorrow, 0},
	{regexp.MustCompile(`(?i)(今天|今日|现在|\btoday\b|\bnow\b)`), HorizonToday, 0},
	{regexp.MustCompile(`(?i)(未来|几天|\bcoming\s+days\b|\bforecast\b)`), HorizonFuture, DefaultFutureDays},
}

// Phrases stripped from a query before what remains is taken as a place.
var (
	fillerHan = []string{
		"请问", "帮我", "帮忙", "查询一下", "查一下", "查询", "看看", "看一下", "告诉我",
		"天气预报", "天气情况", "天气", "气温", "温度", "怎么样", "如何", "会下雨吗",
		"预报", "情况", "的", "吗", "呢", "啊", "一下",
	}
	fillerLatin = map[string]bool{
		"what": true, "whats": true, "what's": true, "is": true, "the": true, "weather": true,
		"like": true, "in": true, "for": true, "at": true, "forecast": true, "please": true,
		"how": true, "will": true, "be": true, "show": true, "me": true, "tell": true,
		"about": true, "next": true, "days": true, "day": true, "today": true, "tomorrow": true,
		"this": true, "week": true, "coming": true, "now": true, "it": true, "of": true,
		"get": true, "check": true, "a": true, "after": true,
	}
	horizonStrip = regexp.MustCompile(`(?i)(未来|接下来|最近)?\s*(\d{1,2}|[一二两三四五六七八九十]{1,3})\s*天|一周|这周|本周|这个星期|未来|几天|大后天|后天|明天|明日|今天|今日|现在|\d+`)
)

// ParseIntent extracts place and horizon from a query using keyword rules.
// place is empty when nothing in the query looks like one.
func ParseIntent(query string, finder PlaceFinder) Intent {
	in := Intent{Horizon: HorizonToday}
	for _, r := range horizonRules {
		m := r.re.FindStringSubmatch(query)
		if m == nil {
			continue
		}
		in.Horizon = r.horizon
		in.Days = r.days
		if len(m) > 1 && r.days == 0 && r.horizon == HorizonFuture {
			in.Days = parseCount(m[1])
		}
		break
	}

	if finder != nil {
		if place, ok := finder.FindIn(query); ok {
			in.Place = place
			return in.Normalize()
		}
	}
	in.Place = leftoverPlace(query)
	return in.Normalize()
}

func leftoverPlace(query string) string {
	if hasHan(query) {
		s := horizonStrip.ReplaceAllString(query, " ")
		for _, f := range fillerHan {
			s = strings.ReplaceAll(s, f, " ")
		}
		return strings.Join(strings.FieldsFunc(s, isSeparator), "")
	}

	var kept []string
	for _, w := range strings.FieldsFunc(query, isSeparator) {
		if _, err := strconv.Atoi(w); err == nil {
			continue
		}
		if fillerLatin[strings.ToLower(w)] {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

func isSeparator(r rune) bool {
	if r == '\'' || r == '-' {
		return false
	}
	return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func hasHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

var hanDigits = map[rune]int{
	'一': 1, '二': 2, '两': 2, '三': 3, '四': 4, '五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

// parseCount reads "7", "七", "十", "十五", "二十".
func parseCount(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	runes := []rune(s)
	total, cur := 0, 0
	for _, r := range runes {
		if r == '十' {
			if cur == 0 {
				cur = 1
			}
			total += cur * 10
			cur = 0
			continue
		}
		cur = hanDigits[r]
	}
	return total + cur
}

// IntentWorker is the deterministic intent stage. When the query names no
// place it asks the locator for a hint and finally falls back to a default.
type IntentWorker struct {
	finder       PlaceFinder
	tools        Tools
	defaultPlace string
}

// NewIntentWorker creates an IntentWorker. tools may be nil to disable the
// IP location hint.
func NewIntentWorker(finder PlaceFinder, tools Tools, defaultPlace string) *IntentWorker {
	return &IntentWorker{finder: finder, tools: tools, defaultPlace: defaultPlace}
}

func (w *IntentWorker) Name() string { return SpeakerIntent }

func (w *IntentWorker) Produce(ctx context.Context, turns []Turn) (Turn, error) {
	in := ParseIntent(QueryFrom(turns), w.finder)
	if in.Place == "" {
		in.Place = w.fallbackPlace(ctx)
	}
	content, err := encode(in)
	if err != nil {
		return Turn{}, err
	}
	return Turn{Speaker: SpeakerIntent, Content: content, Handoff: SpeakerRetrieval}, nil
}

func (w *IntentWorker) fallbackPlace(ctx context.Context) string {
	if w.tools != nil {
		city, err := w.tools.LocateSelf(ctx)
		if err == nil && city != "" {
			log.Printf("INFO: query names no place, using located city %s", city)
			return city
		}
		log.Printf("DEBUG: locate self failed: %v", err)
	}
	return w.defaultPlace
}
