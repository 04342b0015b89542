package models

import "fmt"

// Location is a selectable place to fetch weather for.
type Location struct {
	Name string  `json:"name" example:"Vijayawada"`
	Lat  float64 `json:"lat" example:"16.5062"`
	Lon  float64 `json:"lon" example:"80.648"`
}

func (l Location) RequestParams() string {
	return fmt.Sprintf("name: %s lat: %.4f lon: %.4f", l.Name, l.Lat, l.Lon)
}
