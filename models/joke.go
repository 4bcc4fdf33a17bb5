package models

// JokePayload is the daily dad joke response.
type JokePayload struct {
	Joke       string `json:"joke"`
	IsFallback bool   `json:"isFallback"`
}
