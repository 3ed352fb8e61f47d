package domain

// Weather is the current conditions for a resolved location.
type Weather struct {
	Location    string                 `json:"location"`
	Temperature float64                `json:"temperature"`
	FeelsLike   float64                `json:"feels_like"`
	Humidity    int                    `json:"humidity"`
	Description string                 `json:"description"`
	Raw         map[string]interface{} `json:"raw,omitempty"`
}
