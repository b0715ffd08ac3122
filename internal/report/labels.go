package report

import (
	"math"
	"strings"

	"github.com/i474232898/weather-team/internal/common"
)

var skyconLabels = map[string]string{
	"CLEAR_DAY":           "晴天",
	"CLEAR_NIGHT":         "晴夜",
	"PARTLY_CLOUDY_DAY":   "多云",
	"PARTLY_CLOUDY_NIGHT": "多云",
	"CLOUDY":              "阴天",
	"LIGHT_HAZE":          "轻度雾霾",
	"MODERATE_HAZE":       "中度雾霾",
	"HEAVY_HAZE":          "重度雾霾",
	"LIGHT_RAIN":          "小雨",
	"MODERATE_RAIN":       "中雨",
	"HEAVY_RAIN":          "大雨",
	"STORM_RAIN":          "暴雨",
	"FOG":                 "雾",
	"LIGHT_SNOW":          "小雪",
	"MODERATE_SNOW":       "中雪",
	"HEAVY_SNOW":          "大雪",
	"STORM_SNOW":          "暴雪",
	"DUST":                "浮尘",
	"SAND":                "沙尘",
	"WIND":                "大风",
}

// SkyconLabel translates a condition code. Unknown codes are returned as is.
func SkyconLabel(code string) string {
	if label, ok := skyconLabels[code]; ok {
		return label
	}
	return code
}

// windThresholds are the lower bounds in km/h of levels 1 through 12.
var windThresholds = [...]float64{1, 6, 12, 20, 29, 39, 50, 62, 75, 89, 103, 118}

// WindLevel converts m/s to the 0-12 scale. A speed exactly on a threshold
// belongs to the higher level.
func WindLevel(mps float64) int {
	kmh := mps * 3.6
	level := 0
	for _, t := range windThresholds {
		if kmh < t {
			break
		}
		level++
	}
	return level
}

// Percent turns a 0..1 fraction into a whole percentage, rounding down and
// clamping to [0,100]. The epsilon keeps 0.29 at 29 instead of 28.
func Percent(fraction float64) int {
	p := int(math.Floor(fraction*100 + 1e-9))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Advice text fragments.
const (
	AdviceHeat       = "天气炎热，注意防暑降温"
	AdviceCold       = "天气寒冷，注意保暖添衣"
	AdviceSwing      = "昼夜温差大，适时增减衣物"
	AdviceHeavyRain  = "降雨概率高，建议携带雨具"
	AdviceMildRain   = "可能有降雨，备好雨伞"
	AdviceVisibility = "能见度较低，出行注意安全"
	AdviceOutdoor    = "天气晴朗，适合户外活动"
	AdviceSnow       = "有降雪，注意路面湿滑"
	AdviceNeutral    = "天气适宜，祝您生活愉快"
)

// Advice evaluates the temperature, rain and sky rules on the whole degrees
// the report prints. Each category contributes at most one fragment.
func Advice(label string, tempMax, tempMin, rainPct int) string {
	var tips []string

	switch {
	case tempMax >= 30:
		tips = append(tips, AdviceHeat)
	case tempMin <= 5:
		tips = append(tips, AdviceCold)
	case tempMax-tempMin > 15:
		tips = append(tips, AdviceSwing)
	}

	switch {
	case rainPct > 70:
		tips = append(tips, AdviceHeavyRain)
	case rainPct > 30:
		tips = append(tips, AdviceMildRain)
	}

	switch {
	case common.HasAny(label, "雾", "霾"):
		tips = append(tips, AdviceVisibility)
	case common.HasAny(label, "晴"):
		tips = append(tips, AdviceOutdoor)
	case common.HasAny(label, "雪"):
		tips = append(tips, AdviceSnow)
	}

	if len(tips) == 0 {
		return AdviceNeutral
	}
	return strings.Join(tips, "，")
}
