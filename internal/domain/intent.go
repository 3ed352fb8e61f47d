package domain

// Domain identifies which service a message concerns.
type Domain string

const (
	DomainWeather   Domain = "weather"
	DomainMovie     Domain = "movies"
	DomainEmail     Domain = "email"
	DomainTransport Domain = "transport"
	DomainShift     Domain = "shifts"
	DomainGeneral   Domain = "general"
)

// Intent is the generic view of a classified message. Each domain package
// owns a typed intent and renders it into this shape for structured output.
type Intent struct {
	Domain Domain                 `json:"domain"`
	Action string                 `json:"action"`
	Slots  map[string]interface{} `json:"slots,omitempty"`
}

// Message is a single inbound text together with the hints collected around it.
type Message struct {
	Text   string `json:"text"`
	UserID string `json:"user_id"`

	// Location overrides any location extracted from Text.
	Location string `json:"location,omitempty"`

	// AssistantAnswer is a free-text answer produced upstream for the same turn.
	AssistantAnswer string `json:"assistant_answer,omitempty"`
}

// Response is what the assistant returns for one processed message.
type Response struct {
	Domain      Domain                 `json:"domain"`
	Success     bool                   `json:"success"`
	DisplayText string                 `json:"display_text"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	Intent      Intent                 `json:"intent"`
}
