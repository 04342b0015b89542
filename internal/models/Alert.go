package models

// Alert is a severe weather warning issued for a location.
type Alert struct {
	SenderName  string `json:"sender_name" example:"India Meteorological Department"`
	Event       string `json:"event" example:"Heavy Rain"`
	Description string `json:"description"`
	Start       int64  `json:"start" example:"1753455600"`
	End         int64  `json:"end" example:"1753542000"`
}
