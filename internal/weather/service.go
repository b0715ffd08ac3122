package weather

import (
	"context"
	"fmt"
	"log"
)

// Catalog lists the place names that resolve without network access.
type Catalog interface {
	Names() []string
}

// Service is the tool surface shared by stage workers, the HTTP API and the
// MCP server: resolve a place, fetch its forecast, render a report.
type Service struct {
	resolver  Resolver
	source    ForecastSource
	formatter Formatter
	catalog   Catalog
	locator   Locator
}

// NewService creates a new Service.
func NewService(resolver Resolver, source ForecastSource, formatter Formatter) *Service {
	return &Service{
		resolver:  resolver,
		source:    source,
		formatter: formatter,
	}
}

// SetCatalog sets the list returned by SupportedCities.
func (s *Service) SetCatalog(c Catalog) {
	s.catalog = c
}

// SetLocator enables LocateSelf. Without it LocateSelf fails with ErrNotFound.
func (s *Service) SetLocator(l Locator) {
	s.locator = l
}

// Resolve returns the coordinates of place.
func (s *Service) Resolve(ctx context.Context, place string) (Coordinates, error) {
	return s.resolver.Resolve(ctx, place)
}

// Forecast resolves place and fetches a days-long forecast for it.
// No weather request is made when the place does not resolve.
func (s *Service) Forecast(ctx context.Context, place string, days int) (ForecastResult, error) {
	if s.source == nil {
		return ForecastResult{}, fmt.Errorf("%w: no forecast source configured", ErrConfiguration)
	}

	coords, err := s.resolver.Resolve(ctx, place)
	if err != nil {
		return ForecastResult{}, err
	}

	log.Printf("DEBUG: fetching %d-day forecast for %s (%s) from %s", days, place, coords, s.source.Name())
	result, err := s.source.Fetch(ctx, coords, ClampHorizon(days))
	if err != nil {
		log.Printf("WARN: forecast fetch for %s failed: %v", place, err)
		return ForecastResult{}, err
	}
	return result, nil
}

// Today renders today's report for place.
func (s *Service) Today(ctx context.Context, place string) (string, error) {
	return s.day(ctx, place, 0)
}

// Tomorrow renders tomorrow's report for place.
func (s *Service) Tomorrow(ctx context.Context, place string) (string, error) {
	return s.day(ctx, place, 1)
}

func (s *Service) day(ctx context.Context, place string, dayIndex int) (string, error) {
	result, err := s.Forecast(ctx, place, dayIndex+1)
	if err != nil {
		return "", err
	}
	return s.formatter.Day(result, place, dayIndex)
}

// FutureDays renders a one-line-per-day listing for the next days.
func (s *Service) FutureDays(ctx context.Context, place string, days int) (string, error) {
	days = ClampHorizon(days)
	result, err := s.Forecast(ctx, place, days)
	if err != nil {
		return "", err
	}
	return s.formatter.Range(result, place, days)
}

// Render formats an already fetched forecast. days > 0 selects the listing
// mode, otherwise dayIndex selects a single day.
func (s *Service) Render(result ForecastResult, place string, dayIndex, days int) (string, error) {
	if days > 0 {
		return s.formatter.Range(result, place, days)
	}
	return s.formatter.Day(result, place, dayIndex)
}

// SupportedCities returns the offline-resolvable place names.
func (s *Service) SupportedCities() []string {
	if s.catalog == nil {
		return nil
	}
	return s.catalog.Names()
}

// LocateSelf guesses the caller's city. The answer is a hint only.
func (s *Service) LocateSelf(ctx context.Context) (string, error) {
	if s.locator == nil {
		return "", fmt.Errorf("%w: no locator configured", ErrNotFound)
	}
	city, err := s.locator.Locate(ctx)
	if err != nil {
		return "", err
	}
	if city == "" {
		return "", fmt.Errorf("%w: locator returned no city", ErrNotFound)
	}
	return city, nil
}
