// Package report renders forecasts as plain-text reports.
package report

import (
	"fmt"
	"strings"

	"github.com/i474232898/weather-team/internal/weather"
)

const dateLayout = "2006-01-02"

// Formatter implements weather.Formatter. It holds no state; the same
// input always renders to the same bytes.
type Formatter struct{}

// New returns a Formatter.
func New() Formatter {
	return Formatter{}
}

// Failure is the report shown when the payload status is not "ok".
func Failure(place string) string {
	return fmt.Sprintf("❌ 获取%s天气失败", place)
}

// Day renders the full report of one day. A failed payload yields the
// failure report and no error.
func (Formatter) Day(result weather.ForecastResult, place string, dayIndex int) (string, error) {
	if !result.OK() {
		return Failure(place), nil
	}
	if dayIndex < 0 || dayIndex >= len(result.Days) {
		return "", fmt.Errorf("%w: day %d of %d", weather.ErrDayOutOfRange, dayIndex, len(result.Days))
	}

	d := result.Days[dayIndex]
	label := SkyconLabel(d.Skycon)
	rain := Percent(d.PrecipitationProbability)
	tempMin, tempMax := int(d.TempMin), int(d.TempMax)

	var b strings.Builder
	fmt.Fprintf(&b, "📍 %s %s\n", place, d.Date.Format(dateLayout))
	fmt.Fprintf(&b, "🌤️ 天气：%s\n", label)
	fmt.Fprintf(&b, "🌡️ 温度：%d°C ~ %d°C\n", tempMin, tempMax)
	fmt.Fprintf(&b, "💧 湿度：%d%%\n", Percent(d.Humidity))
	fmt.Fprintf(&b, "💨 风力：%d级\n", WindLevel(d.WindSpeed))
	fmt.Fprintf(&b, "🌧️ 降水概率：%d%%\n", rain)
	fmt.Fprintf(&b, "💡 生活建议：%s", Advice(label, tempMax, tempMin, rain))
	return b.String(), nil
}

// Range renders a header and one summary line per day, without advice.
// days <= 0 or beyond the payload lists every available day.
func (Formatter) Range(result weather.ForecastResult, place string, days int) (string, error) {
	if !result.OK() {
		return Failure(place), nil
	}
	if len(result.Days) == 0 {
		return "", fmt.Errorf("%w: empty forecast", weather.ErrDayOutOfRange)
	}
	if days <= 0 || days > len(result.Days) {
		days = len(result.Days)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📍 %s 未来%d天天气预报：", place, days)
	for _, d := range result.Days[:days] {
		fmt.Fprintf(&b, "\n📅 %s：%s，%d°C ~ %d°C",
			d.Date.Format(dateLayout), SkyconLabel(d.Skycon), int(d.TempMin), int(d.TempMax))
	}
	return b.String(), nil
}
