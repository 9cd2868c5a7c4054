package api

import (
	"errors"
	"net/http"

	"github.com/coolerd/coolerd/internal/configuration"
	"github.com/coolerd/coolerd/internal/persistence"
	"github.com/labstack/echo/v4"
)

func (s *RestService) registerProfileEndpoints(rest *echo.Echo) {
	group := rest.Group("/profile")

	group.GET("/", s.getProfiles)
	group.GET("/:"+urlParamName+"/", s.getProfile)
	group.PUT("/:"+urlParamName+"/", s.saveProfile)
	group.DELETE("/:"+urlParamName+"/", s.deleteProfile)
	group.POST("/:"+urlParamName+"/apply/", s.applyProfile)
}

// allProfiles merges configured presets with db-saved ones, the db wins
// on name collisions.
func (s *RestService) allProfiles() (map[string]configuration.ProfileConfig, error) {
	result := map[string]configuration.ProfileConfig{}
	for name, profile := range s.config.Profiles {
		result[name] = profile
	}

	saved, err := s.persistence.LoadAllProfiles()
	if err != nil {
		return nil, err
	}
	for name, profile := range saved {
		result[name] = profile
	}
	return result, nil
}

func (s *RestService) getProfiles(c echo.Context) error {
	profiles, err := s.allProfiles()
	if err != nil {
		return returnError(c, err)
	}
	return c.JSONPretty(http.StatusOK, profiles, indentationChar)
}

func (s *RestService) getProfile(c echo.Context) error {
	name := c.Param(urlParamName)
	profiles, err := s.allProfiles()
	if err != nil {
		return returnError(c, err)
	}
	profile, exists := profiles[name]
	if !exists {
		return returnNotFound(c, name)
	}
	return c.JSONPretty(http.StatusOK, profile, indentationChar)
}

func (s *RestService) saveProfile(c echo.Context) error {
	name := c.Param(urlParamName)

	var profile configuration.ProfileConfig
	if err := c.Bind(&profile); err != nil {
		return returnBadRequest(c, err)
	}
	for _, value := range append(profile.FanDuties, profile.PumpDuty) {
		if value < 0 || value > 100 {
			return returnBadRequest(c, errors.New("duty out of range [0..100]"))
		}
	}

	if err := s.persistence.SaveProfile(name, profile); err != nil {
		return returnError(c, err)
	}
	return c.JSONPretty(http.StatusOK, profile, indentationChar)
}

func (s *RestService) deleteProfile(c echo.Context) error {
	name := c.Param(urlParamName)

	if _, err := s.persistence.LoadProfile(name); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return returnNotFound(c, name)
		}
		return returnError(c, err)
	}
	if err := s.persistence.DeleteProfile(name); err != nil {
		return returnError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

func (s *RestService) applyProfile(c echo.Context) error {
	name := c.Param(urlParamName)
	profiles, err := s.allProfiles()
	if err != nil {
		return returnError(c, err)
	}
	profile, exists := profiles[name]
	if !exists {
		return returnNotFound(c, name)
	}

	if err := s.controller.ApplyProfile(profile); err != nil {
		return returnBadRequest(c, err)
	}
	return c.JSONPretty(http.StatusOK, profile, indentationChar)
}
