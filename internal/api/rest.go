package api

import (
	"net/http"

	"github.com/coolerd/coolerd/internal/configuration"
	"github.com/coolerd/coolerd/internal/controller"
	"github.com/coolerd/coolerd/internal/persistence"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	urlParamId      = "id"
	urlParamName    = "name"
	indentationChar = "  "
)

type (
	Result struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
)

// RestService exposes the controller state over HTTP.
type RestService struct {
	controller  controller.Controller
	persistence persistence.Persistence
	config      *configuration.Configuration
	registry    *prometheus.Registry
}

func NewRestService(
	c controller.Controller,
	p persistence.Persistence,
	config *configuration.Configuration,
) *RestService {
	return &RestService{
		controller:  c,
		persistence: p,
		config:      config,
		registry:    prometheus.NewRegistry(),
	}
}

func (s *RestService) CreateRestService() *echo.Echo {
	echoRest := echo.New()
	echoRest.HideBanner = true

	// Root level middleware
	echoRest.Pre(middleware.AddTrailingSlash())

	echoRest.Use(middleware.Secure())
	echoRest.Use(middleware.Recover())
	echoRest.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "coolerd",
		Registerer: s.registry,
	}))

	echoRest.GET("/alive/", isAlive)
	echoRest.GET("/metrics/", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: s.registry,
	}))

	s.registerStatusEndpoints(echoRest)
	s.registerChannelEndpoints(echoRest)
	s.registerProfileEndpoints(echoRest)
	s.registerCurveEndpoints(echoRest)
	s.registerSensorEndpoints(echoRest)

	return echoRest
}

// returns an empty "ok" answer
func isAlive(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// return a "not found" message
func returnNotFound(c echo.Context, id string) (err error) {
	return c.JSONPretty(http.StatusNotFound, &Result{
		Name:    "Not found",
		Message: "No item with id '" + id + "' found",
	}, indentationChar)
}

// return a "bad request" message
func returnBadRequest(c echo.Context, e error) (err error) {
	return c.JSONPretty(http.StatusBadRequest, &Result{
		Name:    "Bad request",
		Message: e.Error(),
	}, indentationChar)
}

// return the error message of an error
func returnError(c echo.Context, e error) (err error) {
	return c.JSONPretty(http.StatusInternalServerError, &Result{
		Name:    "Unknown Error",
		Message: e.Error(),
	}, indentationChar)
}
