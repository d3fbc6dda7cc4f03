package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Nutrition is one meal's estimate after sanitization.
type Nutrition struct {
	Calories float64
	Proteins float64
	Carbs    float64
	Fats     float64
}

var requiredFields = []string{"calories", "proteins", "carbs", "fats"}

// Per-field ceilings for a single meal. Values outside [0, ceiling] come from
// the model misreading the image and are clamped rather than rejected.
var maxValues = map[string]float64{
	"calories": 1000,
	"proteins": 100,
	"carbs":    200,
	"fats":     100,
}

// ParseNutrition extracts the four-field estimate from the model's free-text
// reply. Pure function: the model wraps its JSON in prose or code fences often
// enough that all the cleanup lives here, testable without a live call.
func ParseNutrition(raw string) (Nutrition, error) {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	if !(strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")) {
		start := strings.Index(s, "{")
		end := strings.LastIndex(s, "}")
		if start == -1 || end <= start {
			return Nutrition{}, fmt.Errorf("%w: no JSON object found in response", ErrMalformedResponse)
		}
		s = s[start : end+1]
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(s), &fields); err != nil {
		return Nutrition{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	values := make(map[string]float64, len(requiredFields))
	for _, field := range requiredFields {
		v, ok := fields[field]
		if !ok {
			return Nutrition{}, fmt.Errorf("%w: %s", ErrMissingFields, field)
		}
		f, err := toFloat(v)
		if err != nil {
			return Nutrition{}, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, field, err)
		}
		f = math.Max(0, f)
		f = math.Min(f, maxValues[field])
		values[field] = math.Round(f*10) / 10
	}

	return Nutrition{
		Calories: values["calories"],
		Proteins: values["proteins"],
		Carbs:    values["carbs"],
		Fats:     values["fats"],
	}, nil
}

// toFloat accepts JSON numbers and numeric strings like "12"; the prompt asks
// for bare numbers but the model does not always comply.
func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}
