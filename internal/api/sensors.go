package api

import (
	"net/http"

	"github.com/coolerd/coolerd/internal/sensors"
	"github.com/labstack/echo/v4"
)

type SensorDto struct {
	Id        string   `json:"id"`
	Value     *float64 `json:"value,omitempty"`
	MovingAvg float64  `json:"movingAvg"`
}

func (s *RestService) registerSensorEndpoints(rest *echo.Echo) {
	group := rest.Group("/sensor")

	group.GET("/", getSensors)
	group.GET("/:"+urlParamId+"/", getSensor)
}

func sensorDto(sensor sensors.Sensor) SensorDto {
	dto := SensorDto{
		Id:        sensor.GetId(),
		MovingAvg: sensor.GetMovingAvg(),
	}
	if value, err := sensor.GetValue(); err == nil {
		dto.Value = &value
	}
	return dto
}

func getSensors(c echo.Context) error {
	data := map[string]SensorDto{}
	for id, sensor := range sensors.SnapshotSensorMap() {
		data[id] = sensorDto(sensor)
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getSensor(c echo.Context) error {
	id := c.Param(urlParamId)
	sensor, exists := sensors.GetSensor(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, sensorDto(sensor), indentationChar)
}
