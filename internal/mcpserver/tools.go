package mcpserver

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/i474232898/weather-team/internal/weather"
)

// DefaultFutureDays is used when query_weather_future_days gets no days.
const DefaultFutureDays = 3

// CityInput is the input schema for single-city tools.
type CityInput struct {
	City string `json:"city" jsonschema:"city name, Chinese or pinyin/English, e.g. 北京 or Beijing"`
}

// FutureInput is the input schema for the multi-day forecast tool.
type FutureInput struct {
	City string `json:"city" jsonschema:"city name, Chinese or pinyin/English"`
	Days int    `json:"days,omitempty" jsonschema:"number of days to list, 1-15 (default 3)"`
}

// ReportOutput carries a rendered weather report.
type ReportOutput struct {
	City   string `json:"city"`
	Report string `json:"report"`
}

// CitiesOutput lists the cities resolvable without a geocoder.
type CitiesOutput struct {
	Count  int      `json:"count"`
	Cities []string `json:"cities"`
}

// CoordinatesOutput carries the resolved position of a city.
type CoordinatesOutput struct {
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_weather_today",
		Description: "查询指定城市今天的天气，包括温度、湿度、风力、降水概率和生活建议",
	}, s.handleToday)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_weather_tomorrow",
		Description: "查询指定城市明天的天气",
	}, s.handleTomorrow)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_weather_future_days",
		Description: "查询指定城市未来几天（1-15天）的天气预报",
	}, s.handleFuture)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_supported_cities",
		Description: "列出无需地理编码即可查询的城市",
	}, s.handleCities)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_city_coordinates",
		Description: "获取城市的经纬度",
	}, s.handleCoordinates)
}

func (s *Server) handleToday(ctx context.Context, _ *mcp.CallToolRequest, in CityInput) (*mcp.CallToolResult, ReportOutput, error) {
	city, err := cityArg(in.City)
	if err != nil {
		return nil, ReportOutput{}, err
	}
	report, err := s.service.Today(ctx, city)
	if err != nil {
		return nil, ReportOutput{}, toolError("query_weather_today", err, city)
	}
	return nil, ReportOutput{City: city, Report: report}, nil
}

func (s *Server) handleTomorrow(ctx context.Context, _ *mcp.CallToolRequest, in CityInput) (*mcp.CallToolResult, ReportOutput, error) {
	city, err := cityArg(in.City)
	if err != nil {
		return nil, ReportOutput{}, err
	}
	report, err := s.service.Tomorrow(ctx, city)
	if err != nil {
		return nil, ReportOutput{}, toolError("query_weather_tomorrow", err, city)
	}
	return nil, ReportOutput{City: city, Report: report}, nil
}

func (s *Server) handleFuture(ctx context.Context, _ *mcp.CallToolRequest, in FutureInput) (*mcp.CallToolResult, ReportOutput, error) {
	city, err := cityArg(in.City)
	if err != nil {
		return nil, ReportOutput{}, err
	}
	days := in.Days
	if days <= 0 {
		days = DefaultFutureDays
	}
	report, err := s.service.FutureDays(ctx, city, days)
	if err != nil {
		return nil, ReportOutput{}, toolError("query_weather_future_days", err, city)
	}
	return nil, ReportOutput{City: city, Report: report}, nil
}

func (s *Server) handleCities(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, CitiesOutput, error) {
	cities := s.service.SupportedCities()
	return nil, CitiesOutput{Count: len(cities), Cities: cities}, nil
}

func (s *Server) handleCoordinates(ctx context.Context, _ *mcp.CallToolRequest, in CityInput) (*mcp.CallToolResult, CoordinatesOutput, error) {
	city, err := cityArg(in.City)
	if err != nil {
		return nil, CoordinatesOutput{}, err
	}
	coords, err := s.service.Resolve(ctx, city)
	if err != nil {
		return nil, CoordinatesOutput{}, toolError("get_city_coordinates", err, city)
	}
	return nil, CoordinatesOutput{City: city, Latitude: coords.Latitude, Longitude: coords.Longitude}, nil
}

func cityArg(city string) (string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return "", errors.New("city is required")
	}
	return city, nil
}

// toolError turns err into the user-facing message the client shows.
func toolError(tool string, err error, city string) error {
	log.Printf("WARN: mcp tool %s failed for %s: %v", tool, city, err)
	return errors.New(weather.Describe(err, city))
}
