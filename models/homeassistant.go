package models

// EntityState is the normalized state of one monitored Home Assistant entity.
type EntityState struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// HomeStatusPayload is the smart-home status response. It is all-or-nothing:
// a single failed entity fetch degrades the whole payload rather than
// returning partial results.
type HomeStatusPayload struct {
	GuestMode  bool          `json:"guestMode"`
	Entities   []EntityState `json:"entities"`
	IsFallback bool          `json:"isFallback"`
}

// FallbackHomeStatus is the whole-payload degraded response.
func FallbackHomeStatus() HomeStatusPayload {
	return HomeStatusPayload{
		GuestMode:  false,
		Entities:   []EntityState{},
		IsFallback: true,
	}
}
