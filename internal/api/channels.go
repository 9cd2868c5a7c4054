package api

import (
	"net/http"
	"sort"

	"github.com/coolerd/coolerd/internal/controller"
	"github.com/coolerd/coolerd/internal/telemetry"
	"github.com/labstack/echo/v4"
)

type ChannelDto struct {
	Id   string `json:"id"`
	Name string `json:"name,omitempty"`

	// Rpm is the last value the device reported for this channel
	Rpm *int `json:"rpm,omitempty"`
	// EstimatedDuty is derived from the reported rpm
	EstimatedDuty *int `json:"estimatedDuty,omitempty"`
	// AppliedDuty is the last duty the controller wrote
	AppliedDuty *int `json:"appliedDuty,omitempty"`
}

type SetDutyDto struct {
	Duty int `json:"duty"`
}

func (s *RestService) registerChannelEndpoints(rest *echo.Echo) {
	group := rest.Group("/channel")

	group.GET("/", s.getChannels)
	group.GET("/:"+urlParamId+"/", s.getChannel)
	group.PUT("/:"+urlParamId+"/duty/", s.setChannelDuty)
}

// returns all channels the device reported or the controller has written to
func (s *RestService) getChannels(c echo.Context) error {
	data := s.channelDtos(s.controller.Snapshot())
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func (s *RestService) getChannel(c echo.Context) error {
	id := c.Param(urlParamId)
	for _, dto := range s.channelDtos(s.controller.Snapshot()) {
		if dto.Id == id {
			return c.JSONPretty(http.StatusOK, dto, indentationChar)
		}
	}
	return returnNotFound(c, id)
}

// applies a manual duty to a channel, protected by the override window
func (s *RestService) setChannelDuty(c echo.Context) error {
	id := c.Param(urlParamId)

	var body SetDutyDto
	if err := c.Bind(&body); err != nil {
		return returnBadRequest(c, err)
	}

	if err := s.controller.SetChannelDuty(id, body.Duty); err != nil {
		return returnBadRequest(c, err)
	}
	return c.JSONPretty(http.StatusOK, &Result{
		Name:    "ok",
		Message: "duty scheduled",
	}, indentationChar)
}

func (s *RestService) channelDtos(snapshot controller.Snapshot) []ChannelDto {
	dtos := map[string]*ChannelDto{}

	ensure := func(id string) *ChannelDto {
		if dto, ok := dtos[id]; ok {
			return dto
		}
		dto := &ChannelDto{Id: id, Name: s.config.ChannelNames[id]}
		dtos[id] = dto
		return dto
	}

	attachReading := func(id string, reading telemetry.Reading) {
		dto := ensure(id)
		rpm := reading.Rpm
		estimated := reading.Duty
		dto.Rpm = &rpm
		dto.EstimatedDuty = &estimated
	}

	for index, reading := range snapshot.Status.Fans {
		attachReading(controller.ChannelFan(index), reading)
	}
	if snapshot.Status.AllFans != nil {
		attachReading(controller.ChannelAllFans, *snapshot.Status.AllFans)
	}
	if snapshot.Status.Pump != nil {
		attachReading(controller.ChannelPump, *snapshot.Status.Pump)
	}

	for id, value := range snapshot.Duties {
		dto := ensure(id)
		applied := value
		dto.AppliedDuty = &applied
	}

	result := make([]ChannelDto, 0, len(dtos))
	for _, dto := range dtos {
		result = append(result, *dto)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Id < result[j].Id
	})
	return result
}
