package models

// Room is a room listing as returned by the external inventory service.
type Room struct {
	ID            string   `json:"roomId"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	PricePerNight float64  `json:"pricePerNight"`
	Capacity      int      `json:"capacity"`
	Amenities     []string `json:"amenities,omitempty"`
	Available     bool     `json:"available"`
}
