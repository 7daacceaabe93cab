package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/maheshrc27/smartflow/internal/models"
	"github.com/maheshrc27/smartflow/internal/transfer"
)

type fakeProvider struct {
	text     string
	textErr  error
	image    []byte
	imageErr error

	systemPrompts []string
	imagePrompts  []string
}

func (f *fakeProvider) GenerateJSON(ctx context.Context, systemPrompt, prompt string) (string, error) {
	f.systemPrompts = append(f.systemPrompts, systemPrompt)
	return f.text, f.textErr
}

func (f *fakeProvider) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	f.imagePrompts = append(f.imagePrompts, prompt)
	return f.image, f.imageErr
}

func boolPtr(b bool) *bool { return &b }

func TestGenerateContent(t *testing.T) {
	p := &fakeProvider{text: "```json\n{\"text\": \"<i>Fresh</i> beans today\", \"hashtags\": [\"#coffee\", \" morning \", \"\"]}\n```"}
	s := NewAIContentService(p, NewMediaService(NewMemoryStore("http://media.test")))

	got, err := s.Generate(context.Background(), "t1", &transfer.ContentGenerationRequest{
		Prompt:   "coffee shop promo",
		Platform: models.PlatformTwitter,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got.Text != "Fresh beans today" {
		t.Errorf("text = %q", got.Text)
	}
	if len(got.Hashtags) != 2 || got.Hashtags[0] != "coffee" || got.Hashtags[1] != "morning" {
		t.Errorf("hashtags = %v", got.Hashtags)
	}
	if got.ImageURL != "" {
		t.Errorf("unexpected image %q", got.ImageURL)
	}
	if sp := p.systemPrompts[0]; !strings.Contains(sp, "Max characters: 280") || !strings.Contains(sp, "professional") {
		t.Errorf("system prompt missing platform spec: %q", sp)
	}
}

func TestGenerateContentOptions(t *testing.T) {
	p := &fakeProvider{
		text:  `{"text": "` + strings.Repeat("a", 300) + `", "hashtags": ["x"]}`,
		image: pngHeader,
	}
	s := NewAIContentService(p, NewMediaService(NewMemoryStore("http://media.test")))

	got, err := s.Generate(context.Background(), "t1", &transfer.ContentGenerationRequest{
		Prompt:          "launch",
		Platform:        models.PlatformInstagram,
		Tone:            "playful",
		IncludeHashtags: boolPtr(false),
		IncludeImage:    true,
		MaxLength:       100,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got.Text) != 100 {
		t.Errorf("text length = %d, want 100", len(got.Text))
	}
	if got.Hashtags != nil {
		t.Errorf("hashtags = %v, want none", got.Hashtags)
	}
	if !strings.HasPrefix(got.ImageURL, "http://media.test/t1/") || got.ImagePrompt == "" {
		t.Errorf("image = %q prompt = %q", got.ImageURL, got.ImagePrompt)
	}
	if !strings.Contains(p.systemPrompts[0], "playful") || !strings.Contains(p.systemPrompts[0], "Do not include hashtags") {
		t.Errorf("system prompt = %q", p.systemPrompts[0])
	}
}

func TestGenerateContentErrors(t *testing.T) {
	media := NewMediaService(NewMemoryStore("http://media.test"))

	tests := []struct {
		name string
		p    *fakeProvider
		req  *transfer.ContentGenerationRequest
		want error
	}{
		{"empty prompt", &fakeProvider{}, &transfer.ContentGenerationRequest{Platform: models.PlatformTwitter}, ErrInvalidInput},
		{"bad platform", &fakeProvider{}, &transfer.ContentGenerationRequest{Prompt: "x", Platform: "myspace"}, ErrInvalidInput},
		{"image not media", &fakeProvider{text: `{"text":"ok"}`, image: []byte("nope")},
			&transfer.ContentGenerationRequest{Prompt: "x", IncludeImage: true}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAIContentService(tt.p, media).Generate(context.Background(), "t1", tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	providerErr := errors.New("quota exceeded")
	_, err := NewAIContentService(&fakeProvider{textErr: providerErr}, media).Generate(context.Background(), "t1",
		&transfer.ContentGenerationRequest{Prompt: "x", Platform: models.PlatformTwitter})
	if !errors.Is(err, providerErr) {
		t.Errorf("err = %v, want wrapped provider error", err)
	}

	_, err = NewAIContentService(&fakeProvider{text: "not json"}, media).Generate(context.Background(), "t1",
		&transfer.ContentGenerationRequest{Prompt: "x", Platform: models.PlatformTwitter})
	if err == nil {
		t.Error("malformed provider response accepted")
	}
}

func TestAnalyzeContent(t *testing.T) {
	tests := []struct {
		name       string
		p          *fakeProvider
		rating     int
		confidence float64
		suggestion string
	}{
		{"clamped", &fakeProvider{text: `{"sentiment":{"rating":7.6,"confidence":1.4},"suggestions":["add a question"]}`}, 5, 1, "add a question"},
		{"low", &fakeProvider{text: `{"sentiment":{"rating":-2,"confidence":-1},"suggestions":[]}`}, 1, 0, ""},
		{"missing fields", &fakeProvider{text: `{}`}, 3, 0.5, ""},
		{"provider error", &fakeProvider{textErr: errors.New("down")}, 3, 0.5, "Unable to analyze content at this time"},
		{"garbage", &fakeProvider{text: "???"}, 3, 0.5, "Unable to analyze content at this time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAIContentService(tt.p, nil)
			got, err := s.Analyze(context.Background(), &transfer.ContentAnalysisRequest{Content: "hello", Platform: models.PlatformTwitter})
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if got.Sentiment.Rating != tt.rating || got.Sentiment.Confidence != tt.confidence {
				t.Errorf("sentiment = %+v, want %d/%v", got.Sentiment, tt.rating, tt.confidence)
			}
			if tt.suggestion != "" && (len(got.Suggestions) == 0 || got.Suggestions[0] != tt.suggestion) {
				t.Errorf("suggestions = %v", got.Suggestions)
			}
			if got.Suggestions == nil {
				t.Error("suggestions is nil")
			}
		})
	}

	if _, err := NewAIContentService(&fakeProvider{}, nil).Analyze(context.Background(), &transfer.ContentAnalysisRequest{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty content err = %v, want ErrInvalidInput", err)
	}
}
