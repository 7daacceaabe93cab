package transfer

type PostCreation struct {
	Content       string `json:"content"`
	Platform      string `json:"platform"`
	ImageURL      string `json:"imageUrl"`
	IsAIGenerated bool   `json:"isAiGenerated"`
	AIPrompt      string `json:"aiPrompt"`
}

type PostUpdate struct {
	Content  *string `json:"content"`
	Platform *string `json:"platform"`
	ImageURL *string `json:"imageUrl"`
}
