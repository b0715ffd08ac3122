package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/i474232898/weather-team/internal/config"
	"github.com/i474232898/weather-team/internal/geo"
	"github.com/i474232898/weather-team/internal/llm"
	"github.com/i474232898/weather-team/internal/report"
	"github.com/i474232898/weather-team/internal/scheduler"
	"github.com/i474232898/weather-team/internal/team"
	"github.com/i474232898/weather-team/internal/weather"
	"github.com/i474232898/weather-team/internal/weather/providers"
)

// App holds every long-lived component built from configuration.
type App struct {
	Config    *config.AppConfig
	Registry  *geo.Registry
	Resolver  *geo.Resolver
	Service   *weather.Service
	Engine    *team.Engine
	Scheduler *scheduler.Scheduler

	planner team.Planner
}

// New wires the application from cfg.
func New(cfg *config.AppConfig) (*App, error) {
	// Shared HTTP client for outbound provider calls.
	httpCfg := providers.HTTPClientConfig{
		Client:  &http.Client{Timeout: cfg.HTTPTimeout},
		Timeout: cfg.HTTPTimeout,
	}

	registry := geo.NewRegistry()

	gc, err := newGeocoder(cfg, httpCfg)
	if err != nil {
		return nil, err
	}
	resolver := geo.NewResolver(registry, gc, cfg.LookupTimeout)

	source, err := newSource(cfg, httpCfg)
	if err != nil {
		return nil, err
	}
	service := weather.NewService(resolver, source, report.New())
	service.SetCatalog(registry)
	service.SetLocator(geo.NewHintLocator(registry, providers.NewIPLocator(httpCfg, cfg.IPLocateURL)))

	a := &App{
		Config:    cfg,
		Registry:  registry,
		Resolver:  resolver,
		Service:   service,
		Scheduler: scheduler.New(cfg.WarmPlaces, cfg.WarmInterval, resolver),
		planner:   team.SequencePlanner{},
	}

	workers, err := a.workers()
	if err != nil {
		return nil, err
	}
	a.Engine = team.NewEngine(workers, team.Options{
		MaxTurns:     cfg.MaxTurns,
		StageTimeout: cfg.StageTimeout,
	})

	log.Printf("INFO: app ready: source=%s geocoder=%s llm=%t strategy=%s max_turns=%d",
		source.Name(), cfg.Geocoder, cfg.LLMEnabled(), cfg.Strategy, a.Engine.MaxTurns())
	return a, nil
}

func newSource(cfg *config.AppConfig, httpCfg providers.HTTPClientConfig) (weather.ForecastSource, error) {
	switch cfg.ForecastSource {
	case config.SourceCaiyun, "":
		return providers.NewCaiyunProvider(httpCfg, cfg.CaiyunAPIKey, cfg.CaiyunBaseURL, cfg.CaiyunQPS), nil
	case config.SourceOpenMeteo:
		return providers.NewOpenMeteoProvider(httpCfg, cfg.OpenMeteoBaseURL), nil
	case config.SourceWeatherAPI:
		return providers.NewWeatherAPIProvider(httpCfg, cfg.WeatherAPIKey, cfg.WeatherAPIBaseURL), nil
	default:
		return nil, &config.ConfigurationError{Problems: []string{fmt.Sprintf("unknown FORECAST_SOURCE %q", cfg.ForecastSource)}}
	}
}

func newGeocoder(cfg *config.AppConfig, httpCfg providers.HTTPClientConfig) (weather.Geocoder, error) {
	switch cfg.Geocoder {
	case config.GeocoderAMap:
		return providers.NewAMapGeocoder(httpCfg, cfg.AMapAPIKey, cfg.AMapBaseURL), nil
	case config.GeocoderGoogle:
		return providers.NewGoogleGeocoder(cfg.GoogleAPIKey), nil
	case config.GeocoderNone, "":
		return nil, nil
	default:
		return nil, &config.ConfigurationError{Problems: []string{fmt.Sprintf("unknown GEOCODER %q", cfg.Geocoder)}}
	}
}

// workers builds the deterministic stage workers and, when a model is
// configured, swaps in the model-backed intent and presentation workers
// and the model planner.
func (a *App) workers() ([]team.Worker, error) {
	intent := team.NewIntentWorker(a.Registry, a.Service, a.Config.DefaultCity)
	retrieval := team.NewRetrievalWorker(a.Service)

	if !a.Config.LLMEnabled() {
		return []team.Worker{intent, retrieval, team.NewPresentationWorker(a.Service, false)}, nil
	}

	client, err := llm.New(a.Config.OpenAIAPIKey, a.Config.OpenAIModel, a.Config.OpenAIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}
	a.planner = llm.NewPlanner(client)

	// The model planner reads the transcript, so the report announces completion.
	return []team.Worker{
		llm.NewIntentWorker(client, intent),
		retrieval,
		llm.NewPresentationWorker(client, a.Service, true),
	}, nil
}

// Strategy builds the named strategy; an empty name selects the configured default.
func (a *App) Strategy(name string) (team.Strategy, error) {
	if name == "" {
		name = a.Config.Strategy
	}
	return team.NewStrategy(name, a.planner)
}

// Ask runs query through the team under the named strategy.
func (a *App) Ask(ctx context.Context, query, strategy string) (team.Result, error) {
	s, err := a.Strategy(strategy)
	if err != nil {
		return team.Result{}, err
	}
	return a.Engine.Run(ctx, query, s)
}
