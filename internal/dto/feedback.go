package dto

type FeedbackRequest struct {
	Question        string `json:"question"`
	Answer          string `json:"answer"`
	Helpful         *bool  `json:"helpful"`
	CorrectedAnswer string `json:"corrected_answer,omitempty"`
	Comment         string `json:"comment,omitempty"`
}

type FeedbackResponse struct {
	OK      bool   `json:"ok"`
	ID      string `json:"id"`
	Trained bool   `json:"trained"`
}

type TrainRequest struct {
	Question        string `json:"question"`
	CorrectedAnswer string `json:"corrected_answer"`
	Comment         string `json:"comment,omitempty"`
}

type TrainResponse struct {
	OK         bool   `json:"ok"`
	Trained    bool   `json:"trained"`
	FeedbackID string `json:"feedback_id"`
}

type FeedbackItem struct {
	ID              string `json:"id"`
	Question        string `json:"question"`
	Answer          string `json:"answer"`
	Helpful         bool   `json:"helpful"`
	CorrectedAnswer string `json:"corrected_answer"`
	Comment         string `json:"comment"`
	CreatedAt       string `json:"created_at"`
}

type FeedbackListResponse struct {
	OK       bool           `json:"ok"`
	Feedback []FeedbackItem `json:"feedback"`
}
