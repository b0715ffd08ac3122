package geo

import (
	"context"
	"fmt"
	"strings"

	"github.com/i474232898/weather-team/internal/weather"
)

// MatchRegistry maps a free-form city name (for instance one reported by an
// IP geolocation service) to a registry display name. Either string
// containing the other counts as a match, so short names can misfire; treat
// the answer as a hint.
func (r *Registry) MatchRegistry(city string) (string, bool) {
	city = strings.TrimSpace(city)
	if city == "" {
		return "", false
	}
	if _, ok := r.coords[city]; ok {
		return r.displayFor(city), true
	}

	lower := strings.ToLower(city)
	for _, p := range places {
		for _, n := range p.names {
			ln := strings.ToLower(n)
			if strings.Contains(lower, ln) || strings.Contains(ln, lower) {
				return p.names[0], true
			}
		}
	}
	return "", false
}

func (r *Registry) displayFor(alias string) string {
	for _, p := range places {
		for _, n := range p.names {
			if n == alias {
				return p.names[0]
			}
		}
	}
	return alias
}

// HintLocator narrows a raw IP-based city guess to a registry name when one
// matches, and otherwise passes the raw city through.
type HintLocator struct {
	registry *Registry
	source   weather.Locator
}

// NewHintLocator wraps source.
func NewHintLocator(registry *Registry, source weather.Locator) *HintLocator {
	return &HintLocator{registry: registry, source: source}
}

// Locate implements weather.Locator.
func (h *HintLocator) Locate(ctx context.Context) (string, error) {
	city, err := h.source.Locate(ctx)
	if err != nil {
		return "", fmt.Errorf("locate: %w", err)
	}
	if name, ok := h.registry.MatchRegistry(city); ok {
		return name, nil
	}
	return city, nil
}

// FindIn returns the display name of the longest registry alias mentioned in
// text. Latin aliases match case-insensitively on word boundaries; native
// script aliases match as plain substrings.
func (r *Registry) FindIn(text string) (string, bool) {
	lower := strings.ToLower(text)
	best, bestLen := "", 0
	for _, p := range places {
		for _, n := range p.names {
			if len(n) <= bestLen {
				continue
			}
			if mentions(text, lower, n) {
				best, bestLen = p.names[0], len(n)
			}
		}
	}
	return best, bestLen > 0
}

func mentions(text, lower, alias string) bool {
	if !isASCII(alias) {
		return strings.Contains(text, alias)
	}
	la := strings.ToLower(alias)
	for from := 0; from < len(lower); {
		i := strings.Index(lower[from:], la)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(la)
		if wordEdge(lower, start-1) && wordEdge(lower, end) {
			return true
		}
		from = start + 1
	}
	return false
}

func wordEdge(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := s[i]
	return !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9')
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
