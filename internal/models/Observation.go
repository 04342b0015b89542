package models

// Condition is the provider's weather classification for a sample.
// Main is a coarse category such as "Rain", "Clear" or "Snow".
type Condition struct {
	Main        string `json:"main" example:"Rain"`
	Description string `json:"description" example:"light rain"`
	Icon        string `json:"icon" example:"10d"`
}

// Observation is a single upstream weather sample, usually spaced three hours apart.
type Observation struct {
	Timestamp   int64   `json:"dt" example:"1753531200"`
	Temperature float64 `json:"temperature" example:"23.45"`
	Humidity    int     `json:"humidity" example:"64"`
	WindSpeed   float64 `json:"wind_speed" example:"3.2"`
	// PrecipitationProbability is optional upstream; nil is read as 0.
	PrecipitationProbability *float64  `json:"pop,omitempty" example:"0.4"`
	Condition                Condition `json:"condition"`
}

// Pop returns the precipitation probability, defaulting to 0 when absent.
func (o Observation) Pop() float64 {
	if o.PrecipitationProbability == nil {
		return 0
	}
	return *o.PrecipitationProbability
}
