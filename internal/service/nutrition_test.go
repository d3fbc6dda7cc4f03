package service

import (
	"errors"
	"testing"
)

func TestParseNutritionValid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Nutrition
	}{
		{
			name: "bare object",
			raw:  `{"calories": 95, "proteins": 0.5, "carbs": 25, "fats": 0.3}`,
			want: Nutrition{Calories: 95, Proteins: 0.5, Carbs: 25, Fats: 0.3},
		},
		{
			name: "surrounding prose",
			raw:  "Here is the estimate you asked for:\n{\"calories\": 200, \"proteins\": 10, \"carbs\": 30, \"fats\": 5}\nLet me know if you need anything else.",
			want: Nutrition{Calories: 200, Proteins: 10, Carbs: 30, Fats: 5},
		},
		{
			name: "markdown code fence",
			raw:  "```json\n{\"calories\": 150, \"proteins\": 8, \"carbs\": 20, \"fats\": 4}\n```",
			want: Nutrition{Calories: 150, Proteins: 8, Carbs: 20, Fats: 4},
		},
		{
			name: "numeric strings",
			raw:  `{"calories": "12", "proteins": "1", "carbs": "2", "fats": "0.5"}`,
			want: Nutrition{Calories: 12, Proteins: 1, Carbs: 2, Fats: 0.5},
		},
		{
			name: "clamped to ceilings",
			raw:  `{"calories": 5000, "proteins": 300, "carbs": 900, "fats": 450}`,
			want: Nutrition{Calories: 1000, Proteins: 100, Carbs: 200, Fats: 100},
		},
		{
			name: "negatives clamped to zero",
			raw:  `{"calories": -50, "proteins": -1, "carbs": 10, "fats": 2}`,
			want: Nutrition{Calories: 0, Proteins: 0, Carbs: 10, Fats: 2},
		},
		{
			name: "rounded to one decimal",
			raw:  `{"calories": 95.678, "proteins": 0.55, "carbs": 25.123, "fats": 0.34}`,
			want: Nutrition{Calories: 95.7, Proteins: 0.6, Carbs: 25.1, Fats: 0.3},
		},
		{
			name: "extra keys ignored",
			raw:  `{"calories": 100, "proteins": 5, "carbs": 10, "fats": 3, "confidence": "high"}`,
			want: Nutrition{Calories: 100, Proteins: 5, Carbs: 10, Fats: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNutrition(tt.raw)
			if err != nil {
				t.Fatalf("ParseNutrition(%q) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseNutrition(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseNutritionErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"empty reply", "", ErrMalformedResponse},
		{"no braces", "I cannot identify any food in this image.", ErrMalformedResponse},
		{"open brace only", "here you go: { not closed", ErrMalformedResponse},
		{"invalid json", `{"calories": 95,}`, ErrMalformedResponse},
		{"non-numeric value", `{"calories": "lots", "proteins": 1, "carbs": 2, "fats": 3}`, ErrMalformedResponse},
		{"boolean value", `{"calories": true, "proteins": 1, "carbs": 2, "fats": 3}`, ErrMalformedResponse},
		{"missing calories", `{"proteins": 1, "carbs": 2, "fats": 3}`, ErrMissingFields},
		{"missing fats", `{"calories": 95, "proteins": 1, "carbs": 2}`, ErrMissingFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNutrition(tt.raw)
			if err == nil {
				t.Fatalf("ParseNutrition(%q) succeeded, want %v", tt.raw, tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseNutrition(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
			}
		})
	}
}
