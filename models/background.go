package models

// BackgroundPayload describes the rotating background image. Query is always
// populated, even on fallback, so the display layer can reason about intent
// without an image.
type BackgroundPayload struct {
	ImageURL    *string `json:"imageUrl"`
	Attribution string  `json:"attribution,omitempty"`
	Query       string  `json:"query"`
	IsFallback  bool    `json:"isFallback"`
}
