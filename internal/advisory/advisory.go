// Package advisory derives human readable recommendations and icon categories
// from a single weather record.
package advisory

import (
	"fmt"
	"math"
	"strings"
)

const (
	AdviceHeat        = "Stay hydrated and avoid direct sun exposure during peak hours."
	AdviceHot         = "Consider wearing light clothing and carrying water."
	AdviceCold        = "Wear warm clothing."
	AdviceWet         = "Carry an umbrella and avoid open areas during thunderstorms."
	AdviceSnow        = "Wear warm, waterproof clothing and drive carefully."
	AdviceSun         = "Use sunscreen and stay in shade when possible."
	AdviceLikelyRain  = "High chance of precipitation, be prepared for rain."
	AdviceNothingToDo = "No specific recommendations for today's weather."
)

// Recommend returns the advisories for a record, in rule priority order:
// temperature band, condition, precipitation probability. Every matching rule
// contributes; when none match the single fallback advisory is returned.
//
// Inputs must be finite, see ValidateInputs.
func Recommend(conditionMain string, temperature, precipitationProbability float64) []string {
	var recs []string

	switch {
	case temperature > 35:
		recs = append(recs, AdviceHeat)
	case temperature > 30:
		recs = append(recs, AdviceHot)
	case temperature < 15:
		recs = append(recs, AdviceCold)
	}

	switch strings.ToLower(conditionMain) {
	case "rain", "drizzle", "thunderstorm":
		recs = append(recs, AdviceWet)
	case "snow":
		recs = append(recs, AdviceSnow)
	case "clear":
		if temperature > 25 {
			recs = append(recs, AdviceSun)
		}
	}

	if precipitationProbability > 0.5 {
		recs = append(recs, AdviceLikelyRain)
	}

	if len(recs) == 0 {
		return []string{AdviceNothingToDo}
	}
	return recs
}

// ValidateInputs rejects values Recommend cannot reason about.
func ValidateInputs(temperature, precipitationProbability float64) error {
	if math.IsNaN(temperature) || math.IsInf(temperature, 0) {
		return fmt.Errorf("temperature must be a finite number, got %v", temperature)
	}
	if math.IsNaN(precipitationProbability) || math.IsInf(precipitationProbability, 0) {
		return fmt.Errorf("precipitation probability must be a finite number, got %v", precipitationProbability)
	}
	return nil
}
