package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-team/internal/weather"
)

func day(date string, min, max float64, skycon string, rain, humidity, wind float64) weather.DailyRecord {
	ts, _ := time.Parse("2006-01-02", date)
	return weather.DailyRecord{
		Date:                     ts,
		TempMin:                  min,
		TempMax:                  max,
		Skycon:                   skycon,
		PrecipitationProbability: rain,
		Humidity:                 humidity,
		WindSpeed:                wind,
	}
}

func beijing() weather.ForecastResult {
	return weather.ForecastResult{
		Status: weather.StatusOK,
		Days: []weather.DailyRecord{
			day("2024-06-01", 23, 31, "PARTLY_CLOUDY_DAY", 0.0, 0.53, 10.2),
			day("2024-06-02", 20.7, 27.9, "LIGHT_RAIN", 0.8, 0.7, 3),
			day("2024-06-03", -2.5, 4.2, "HEAVY_SNOW", 0.29, 0.9, 0),
		},
	}
}

func TestWindLevel(t *testing.T) {
	kmh := func(v float64) float64 { return v / 3.6 }

	tests := []struct {
		name string
		mps  float64
		want int
	}{
		{"calm", 0, 0},
		{"just below first threshold", kmh(0.99), 0},
		{"first threshold", kmh(1), 1},
		{"below 12 km/h", kmh(11.99), 2},
		{"at 12 km/h", kmh(12), 3},
		{"10.2 m/s", 10.2, 5},
		{"at 117.99 km/h", kmh(117.99), 11},
		{"at 118 km/h", kmh(118), 12},
		{"130 km/h", kmh(130), 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WindLevel(tt.mps))
		})
	}
}

func TestWindLevel_Monotonic(t *testing.T) {
	prev := 0
	for mps := 0.0; mps < 40; mps += 0.01 {
		got := WindLevel(mps)
		require.GreaterOrEqual(t, got, prev, "mps=%v", mps)
		prev = got
	}
	assert.Equal(t, 12, prev)
}

func TestSkyconLabel(t *testing.T) {
	assert.Equal(t, "晴天", SkyconLabel("CLEAR_DAY"))
	assert.Equal(t, "多云", SkyconLabel("PARTLY_CLOUDY_NIGHT"))
	assert.Equal(t, "重度雾霾", SkyconLabel("HEAVY_HAZE"))
	assert.Equal(t, "THUNDER_SHOWER", SkyconLabel("THUNDER_SHOWER"))
	assert.Equal(t, "", SkyconLabel(""))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(0))
	assert.Equal(t, 53, Percent(0.53))
	assert.Equal(t, 29, Percent(0.29))
	assert.Equal(t, 99, Percent(0.999))
	assert.Equal(t, 100, Percent(1.2))
	assert.Equal(t, 0, Percent(-0.1))
}

func TestAdvice(t *testing.T) {
	tests := []struct {
		name  string
		label string
		max   int
		min   int
		rain  int
		want  string
	}{
		{"heat only", "多云", 31, 23, 0, AdviceHeat},
		{"heat wins over cold", "阴天", 30, 5, 0, AdviceHeat},
		{"cold", "阴天", 12, 5, 0, AdviceCold},
		{"swing", "阴天", 26, 10, 0, AdviceSwing},
		{"no swing at exactly 15", "阴天", 25, 10, 0, AdviceNeutral},
		{"heavy rain", "中雨", 20, 15, 71, AdviceHeavyRain},
		{"70 is mild", "小雨", 20, 15, 70, AdviceMildRain},
		{"30 is nothing", "阴天", 20, 15, 30, AdviceNeutral},
		{"haze beats clear", "晴转雾霾", 20, 15, 0, AdviceVisibility},
		{"clear", "晴天", 20, 15, 0, AdviceOutdoor},
		{"snow", "大雪", 20, 15, 0, AdviceSnow},
		{"all categories", "小雪", 3, -4, 90, AdviceCold + "，" + AdviceHeavyRain + "，" + AdviceSnow},
		{"neutral", "阴天", 22, 15, 10, AdviceNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Advice(tt.label, tt.max, tt.min, tt.rain))
		})
	}
}

func TestFormatter_DayAdviceMatchesPrintedTemperatures(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		temp     string
		want     string
	}{
		{"min 5.6 prints 5 and is cold", 5.6, 12.2, "🌡️ 温度：5°C ~ 12°C", AdviceCold},
		{"printed gap of 15 is no swing", 10.4, 25.9, "🌡️ 温度：10°C ~ 25°C", AdviceNeutral},
		{"max 29.9 prints 29 and is not hot", 20, 29.9, "🌡️ 温度：20°C ~ 29°C", AdviceNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := weather.ForecastResult{
				Status: weather.StatusOK,
				Days:   []weather.DailyRecord{day("2024-06-01", tt.min, tt.max, "CLOUDY", 0.1, 0.5, 2)},
			}
			got, err := New().Day(res, "北京", 0)
			require.NoError(t, err)
			assert.Contains(t, got, tt.temp)
			assert.True(t, strings.HasSuffix(got, "💡 生活建议："+tt.want), got)
		})
	}
}

func TestFormatter_DayBeijing(t *testing.T) {
	got, err := New().Day(beijing(), "北京", 0)
	require.NoError(t, err)

	want := strings.Join([]string{
		"📍 北京 2024-06-01",
		"🌤️ 天气：多云",
		"🌡️ 温度：23°C ~ 31°C",
		"💧 湿度：53%",
		"💨 风力：5级",
		"🌧️ 降水概率：0%",
		"💡 生活建议：天气炎热，注意防暑降温",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestFormatter_DayTruncatesValues(t *testing.T) {
	got, err := New().Day(beijing(), "北京", 2)
	require.NoError(t, err)

	assert.Contains(t, got, "温度：-2°C ~ 4°C")
	assert.Contains(t, got, "降水概率：29%")
	assert.Contains(t, got, "风力：0级")
	assert.Contains(t, got, AdviceCold)
	assert.Contains(t, got, AdviceSnow)
}

func TestFormatter_DayIsDeterministic(t *testing.T) {
	f := New()
	a, err := f.Day(beijing(), "北京", 1)
	require.NoError(t, err)
	b, err := f.Day(beijing(), "北京", 1)
	require.NoError(t, err)
	assert.Equal(t, []byte(a), []byte(b))
}

func TestFormatter_FailedStatus(t *testing.T) {
	failed := weather.ForecastResult{Status: "failed"}

	got, err := New().Day(failed, "北京", 0)
	require.NoError(t, err)
	assert.Equal(t, "❌ 获取北京天气失败", got)

	got, err = New().Range(failed, "北京", 3)
	require.NoError(t, err)
	assert.Equal(t, Failure("北京"), got)
}

func TestFormatter_DayOutOfRange(t *testing.T) {
	for _, idx := range []int{-1, 3, 10} {
		_, err := New().Day(beijing(), "北京", idx)
		assert.ErrorIs(t, err, weather.ErrDayOutOfRange, "index %d", idx)
	}
}

func TestFormatter_Range(t *testing.T) {
	got, err := New().Range(beijing(), "北京", 2)
	require.NoError(t, err)

	want := "📍 北京 未来2天天气预报：\n" +
		"📅 2024-06-01：多云，23°C ~ 31°C\n" +
		"📅 2024-06-02：小雨，20°C ~ 27°C"
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "生活建议")

	all, err := New().Range(beijing(), "北京", 15)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(all, "📍 北京 未来3天天气预报："))
	assert.Equal(t, 3, strings.Count(all, "📅"))

	_, err = New().Range(weather.ForecastResult{Status: weather.StatusOK}, "北京", 3)
	assert.ErrorIs(t, err, weather.ErrDayOutOfRange)
}
