package dto

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Source     string  `json:"source"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence,omitempty"`
}
