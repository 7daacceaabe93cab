package transfer

type ContentGenerationRequest struct {
	Prompt          string `json:"prompt"`
	Platform        string `json:"platform"`
	Tone            string `json:"tone"`
	IncludeHashtags *bool  `json:"includeHashtags"`
	IncludeImage    bool   `json:"includeImage"`
	MaxLength       int    `json:"maxLength"`
}

type GeneratedContent struct {
	Text        string   `json:"text"`
	Hashtags    []string `json:"hashtags,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	ImagePrompt string   `json:"imagePrompt,omitempty"`
}

type ContentAnalysisRequest struct {
	Content  string `json:"content"`
	Platform string `json:"platform"`
}

type Sentiment struct {
	Rating     int     `json:"rating"`
	Confidence float64 `json:"confidence"`
}

type ContentAnalysis struct {
	Sentiment   Sentiment `json:"sentiment"`
	Suggestions []string  `json:"suggestions"`
}
