package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type StatusDto struct {
	UpdatedAt time.Time `json:"updatedAt"`
	Boosted   bool      `json:"boosted"`

	CpuTemp   *float64 `json:"cpuTemp,omitempty"`
	WaterTemp *float64 `json:"waterTemp,omitempty"`

	Channels []ChannelDto `json:"channels"`
}

func (s *RestService) registerStatusEndpoints(rest *echo.Echo) {
	rest.GET("/status/", s.getStatus)
}

// returns the latest device poll result together with the controller state
func (s *RestService) getStatus(c echo.Context) error {
	snapshot := s.controller.Snapshot()

	data := StatusDto{
		UpdatedAt: snapshot.UpdatedAt,
		Boosted:   snapshot.Boosted,
		CpuTemp:   snapshot.CpuTemp,
		WaterTemp: snapshot.Status.WaterTemp,
		Channels:  s.channelDtos(snapshot),
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}
