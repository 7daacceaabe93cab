package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/maheshrc27/smartflow/internal/models"
	"github.com/maheshrc27/smartflow/internal/transfer"
)

// AIContentProvider is the external text and image generation API.
type AIContentProvider interface {
	GenerateJSON(ctx context.Context, systemPrompt, prompt string) (string, error)
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

type platformSpec struct {
	MaxLength int
	Style     string
	Audience  string
}

var platformSpecs = map[string]platformSpec{
	models.PlatformInstagram: {2200, "Visual-first, engaging, emoji-friendly", "Visual content consumers, lifestyle-focused"},
	models.PlatformTwitter:   {280, "Concise, conversational, trending-aware", "News-focused, real-time engagement"},
	models.PlatformLinkedIn:  {3000, "Professional, thought-leadership, industry-focused", "Business professionals, B2B audience"},
	models.PlatformFacebook:  {63206, "Community-focused, shareable, discussion-starter", "Broad demographic, community-oriented"},
}

type AIContentService interface {
	Generate(ctx context.Context, tenantID string, req *transfer.ContentGenerationRequest) (*transfer.GeneratedContent, error)
	Analyze(ctx context.Context, req *transfer.ContentAnalysisRequest) (*transfer.ContentAnalysis, error)
}

type aiContentService struct {
	provider AIContentProvider
	media    MediaService
}

func NewAIContentService(provider AIContentProvider, media MediaService) AIContentService {
	return &aiContentService{provider: provider, media: media}
}

func (s *aiContentService) Generate(ctx context.Context, tenantID string, req *transfer.ContentGenerationRequest) (*transfer.GeneratedContent, error) {
	if req == nil || strings.TrimSpace(req.Prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrInvalidInput)
	}
	if req.Platform == "" {
		req.Platform = models.PlatformInstagram
	}
	spec, ok := platformSpecs[req.Platform]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported platform %q", ErrInvalidInput, req.Platform)
	}

	tone := req.Tone
	if tone == "" {
		tone = "professional"
	}
	includeHashtags := req.IncludeHashtags == nil || *req.IncludeHashtags
	maxChars := spec.MaxLength
	if req.MaxLength > 0 && req.MaxLength < maxChars {
		maxChars = req.MaxLength
	}

	hashtagRule := "Do not include hashtags."
	if includeHashtags {
		hashtagRule = "Include relevant hashtags."
	}
	systemPrompt := fmt.Sprintf(`You are an expert social media content creator. Generate engaging %s content for %s.

Platform requirements:
- Max characters: %d
- Style: %s
- Audience: %s

%s

Respond with JSON in this format:
{"text": "Main content text", "hashtags": ["hashtag1", "hashtag2"]}`, tone, req.Platform, maxChars, spec.Style, spec.Audience, hashtagRule)

	raw, err := s.provider.GenerateJSON(ctx, systemPrompt, req.Prompt)
	if err != nil {
		slog.Error("AI content generation failed", "error", err)
		return nil, fmt.Errorf("failed to generate AI content: %w", err)
	}

	var parsed struct {
		Text     string   `json:"text"`
		Hashtags []string `json:"hashtags"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &parsed); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to generate AI content: malformed response: %w", err)
	}

	content := &transfer.GeneratedContent{Text: truncateRunes(sanitizeText(parsed.Text), maxChars)}
	if includeHashtags {
		for _, tag := range parsed.Hashtags {
			tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
			if tag != "" {
				content.Hashtags = append(content.Hashtags, tag)
			}
		}
	}

	if req.IncludeImage {
		imagePrompt := fmt.Sprintf("Create a high-quality, professional social media image for %s. %s. Modern, clean design with good contrast and readability.", req.Platform, req.Prompt)
		data, err := s.provider.GenerateImage(ctx, imagePrompt)
		if err != nil {
			slog.Error("AI image generation failed", "error", err)
			return nil, fmt.Errorf("failed to generate AI image: %w", err)
		}
		url, err := s.media.Upload(ctx, tenantID, data)
		if err != nil {
			return nil, fmt.Errorf("failed to store AI image: %w", err)
		}
		content.ImageURL = url
		content.ImagePrompt = imagePrompt
	}

	return content, nil
}

// Analyze never fails on provider errors; it falls back to a neutral result.
func (s *aiContentService) Analyze(ctx context.Context, req *transfer.ContentAnalysisRequest) (*transfer.ContentAnalysis, error) {
	if req == nil || strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}

	fallback := &transfer.ContentAnalysis{
		Sentiment:   transfer.Sentiment{Rating: 3, Confidence: 0.5},
		Suggestions: []string{"Unable to analyze content at this time"},
	}

	systemPrompt := fmt.Sprintf(`Analyze this %s content for sentiment and provide improvement suggestions. Respond with JSON:
{"sentiment": {"rating": 1-5, "confidence": 0-1}, "suggestions": ["suggestion1", "suggestion2"]}`, req.Platform)

	raw, err := s.provider.GenerateJSON(ctx, systemPrompt, req.Content)
	if err != nil {
		slog.Error("content analysis error", "error", err)
		return fallback, nil
	}

	var parsed struct {
		Sentiment struct {
			Rating     *float64 `json:"rating"`
			Confidence *float64 `json:"confidence"`
		} `json:"sentiment"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &parsed); err != nil {
		slog.Error("content analysis error", "error", err)
		return fallback, nil
	}

	rating := 3.0
	if parsed.Sentiment.Rating != nil {
		rating = *parsed.Sentiment.Rating
	}
	confidence := 0.5
	if parsed.Sentiment.Confidence != nil {
		confidence = *parsed.Sentiment.Confidence
	}

	suggestions := parsed.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return &transfer.ContentAnalysis{
		Sentiment: transfer.Sentiment{
			Rating:     int(math.Max(1, math.Min(5, math.Round(rating)))),
			Confidence: math.Max(0, math.Min(1, confidence)),
		},
		Suggestions: suggestions,
	}, nil
}

func cleanJSON(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	return string(r[:max])
}
