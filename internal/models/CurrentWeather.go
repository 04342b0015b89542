package models

// CurrentWeather is the latest observation for a location.
type CurrentWeather struct {
	Name        string    `json:"name" example:"Guntur"`
	Timestamp   int64     `json:"dt" example:"1753455600"`
	Temperature float64   `json:"temp" example:"33.1"`
	FeelsLike   float64   `json:"feels_like" example:"37.4"`
	TempMin     float64   `json:"temp_min" example:"32.0"`
	TempMax     float64   `json:"temp_max" example:"34.2"`
	Pressure    int       `json:"pressure" example:"1004"`
	Humidity    int       `json:"humidity" example:"58"`
	WindSpeed   float64   `json:"wind_speed" example:"4.6"`
	Condition   Condition `json:"condition"`
	Sunrise     int64     `json:"sunrise" example:"1753402500"`
	Sunset      int64     `json:"sunset" example:"1753449300"`
}
