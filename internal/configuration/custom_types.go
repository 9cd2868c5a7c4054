package configuration

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// curvePointsHookFunc returns a mapstructure decode hook that accepts the two
// point notations used in config files:
//
//  1. a temperature → duty map:   points: {30: 20, 60: 60, 80: 100}
//  2. a list of [temp, duty] pairs: points: [[30, 20], [60, 60], [80, 100]]
//
// Map input is sorted ascending by temperature (YAML maps are unordered),
// list input keeps its given order so validation can reject bad ordering.
func curvePointsHookFunc() mapstructure.DecodeHookFuncType {
	pointsType := reflect.TypeOf(CurvePoints{})

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != pointsType {
			return data, nil
		}

		switch v := data.(type) {
		case map[string]interface{}:
			return pointsFromMap(mapKeysToInterface(v))
		case map[interface{}]interface{}:
			return pointsFromMap(v)
		case []interface{}:
			return pointsFromPairs(v)
		}

		return data, nil
	}
}

func mapKeysToInterface(in map[string]interface{}) map[interface{}]interface{} {
	out := make(map[interface{}]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func pointsFromMap(data map[interface{}]interface{}) (CurvePoints, error) {
	points := make(CurvePoints, 0, len(data))
	for k, v := range data {
		temp, err := anyToFloat(k)
		if err != nil {
			return nil, fmt.Errorf("invalid curve point temperature %v: %w", k, err)
		}
		dutyValue, err := anyToInt(v)
		if err != nil {
			return nil, fmt.Errorf("invalid curve point duty %v: %w", v, err)
		}
		points = append(points, ControlPoint{Temp: temp, Duty: dutyValue})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Temp < points[j].Temp
	})
	return points, nil
}

func pointsFromPairs(data []interface{}) (CurvePoints, error) {
	points := make(CurvePoints, 0, len(data))
	for _, entry := range data {
		pair, ok := entry.([]interface{})
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("curve point %v: expected a [temperature, duty] pair", entry)
		}
		temp, err := anyToFloat(pair[0])
		if err != nil {
			return nil, fmt.Errorf("invalid curve point temperature %v: %w", pair[0], err)
		}
		dutyValue, err := anyToInt(pair[1])
		if err != nil {
			return nil, fmt.Errorf("invalid curve point duty %v: %w", pair[1], err)
		}
		points = append(points, ControlPoint{Temp: temp, Duty: dutyValue})
	}
	return points, nil
}

func anyToFloat(v interface{}) (float64, error) {
	switch val := v.(type) {
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case float64:
		return val, nil
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as float: %w", val, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float", v)
	}
}

func anyToInt(v interface{}) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	case string:
		n, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as int: %w", val, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to int", v)
	}
}
