package httpapi

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/i474232898/weather-team/internal/team"
	"github.com/i474232898/weather-team/internal/weather"
)

var validate = validator.New()

// Asker runs a natural-language query through the team.
type Asker interface {
	Ask(ctx context.Context, query, strategy string) (team.Result, error)
}

// NewApp builds the Fiber app with middleware, health endpoint and routes.
func NewApp(service *weather.Service, asker Asker) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "weather-team",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-team",
		})
	})

	RegisterRoutes(app, service, asker)
	return app
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. asker may be
// nil, in which case /ask answers 503.
func RegisterRoutes(app *fiber.App, service *weather.Service, asker Asker) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/today", func(c *fiber.Ctx) error {
		q, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		report, err := service.Today(c.UserContext(), q.City)
		if err != nil {
			return failure(c, err, q.City)
		}
		return c.JSON(fiber.Map{"city": q.City, "report": report})
	})

	v1.Get("/weather/tomorrow", func(c *fiber.Ctx) error {
		q, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		report, err := service.Tomorrow(c.UserContext(), q.City)
		if err != nil {
			return failure(c, err, q.City)
		}
		return c.JSON(fiber.Map{"city": q.City, "report": report})
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		var q forecastQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		report, err := service.FutureDays(c.UserContext(), q.City, q.Days)
		if err != nil {
			return failure(c, err, q.City)
		}
		return c.JSON(fiber.Map{"city": q.City, "days": q.Days, "report": report})
	})

	v1.Get("/cities", func(c *fiber.Ctx) error {
		cities := service.SupportedCities()
		return c.JSON(fiber.Map{"count": len(cities), "cities": cities})
	})

	v1.Get("/coordinates", func(c *fiber.Ctx) error {
		q, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		coords, err := service.Resolve(c.UserContext(), q.City)
		if err != nil {
			return failure(c, err, q.City)
		}
		return c.JSON(fiber.Map{"city": q.City, "latitude": coords.Latitude, "longitude": coords.Longitude})
	})

	v1.Post("/ask", func(c *fiber.Ctx) error {
		if asker == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "query team is not configured")
		}

		var req askRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
		}
		req.Query = strings.TrimSpace(req.Query)
		req.Strategy = strings.ToLower(strings.TrimSpace(req.Strategy))
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res, err := asker.Ask(c.UserContext(), req.Query, req.Strategy)
		if err != nil {
			return c.Status(StatusFor(err)).JSON(fiber.Map{
				"error":   true,
				"kind":    weather.Kind(err),
				"message": weather.Describe(err, ""),
				"runId":   res.RunID,
				"turns":   res.Turns,
			})
		}
		return c.JSON(res)
	})
}

// StatusFor maps an error category to an HTTP status code.
func StatusFor(err error) int {
	switch weather.Kind(err) {
	case "not_found":
		return fiber.StatusNotFound
	case "rate_limited":
		return fiber.StatusTooManyRequests
	case "day_out_of_range":
		return fiber.StatusUnprocessableEntity
	case "pipeline_exhausted":
		return fiber.StatusLoopDetected
	case "cancelled":
		return fiber.StatusRequestTimeout
	case "transport":
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func failure(c *fiber.Ctx, err error, city string) error {
	return c.Status(StatusFor(err)).JSON(fiber.Map{
		"error":   true,
		"kind":    weather.Kind(err),
		"message": weather.Describe(err, city),
	})
}

// cityQuery holds the city query parameter.
type cityQuery struct {
	City string `validate:"required"`
}

func parseCityQuery(c *fiber.Ctx) (cityQuery, error) {
	q := cityQuery{City: strings.TrimSpace(c.Query("city"))}
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// forecastQuery holds query parameters for the forecast endpoint.
type forecastQuery struct {
	City string `validate:"required"`
	Days int    `validate:"required,min=1,max=15"`
}

func (f *forecastQuery) bind(c *fiber.Ctx) error {
	f.City = strings.TrimSpace(c.Query("city"))

	daysStr := c.Query("days")
	if daysStr == "" {
		return errors.New("days query parameter is required")
	}
	days, err := strconv.Atoi(daysStr)
	if err != nil {
		return errors.New("days must be an integer")
	}
	f.Days = days
	return nil
}

type askRequest struct {
	Query    string `json:"query" validate:"required"`
	Strategy string `json:"strategy" validate:"omitempty,oneof=selector handoff autoplan swarm magentic centralized decentralized planner"`
}
