package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
)

var ErrCareUnavailable = errors.New("care recommendations unavailable")

const careModelName = "gemini-1.5-flash"

const carePromptTemplate = `You are a veterinary care assistant. Given the pet below, produce care recommendations.

Pet:
- Species: %s
- Breed: %s
- Age: %d years
- Weight: %s
- Notes: %s

Respond with ONLY a JSON object, no markdown, matching this schema exactly:
{"diet":["..."],"exercise":["..."],"grooming":["..."],"health":["..."],"environment":["..."],"warnings":["..."]}

Each list holds 2-4 short, practical recommendations. "warnings" lists breed- or age-specific risks; it may be empty.`

// CareService asks a generative model for structured care recommendations.
type CareService struct {
	client *genai.Client
}

func NewCareService(ctx context.Context, apiKey string) (*CareService, error) {
	if apiKey == "" {
		return nil, ErrCareUnavailable
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &CareService{client: client}, nil
}

func (s *CareService) Close() error {
	return s.client.Close()
}

func (s *CareService) Recommend(ctx context.Context, req *models.CareRequest) (*models.CareRecommendation, error) {
	model := s.client.GenerativeModel(careModelName)

	prompt := fmt.Sprintf(carePromptTemplate, req.Species, req.Breed, req.Age, req.Weight, req.Notes)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Printf("[CareService] generation failed: %v", err)
		return nil, ErrCareUnavailable
	}

	text := collectText(resp)
	rec, err := parseCareRecommendation(text)
	if err != nil {
		// The model occasionally ignores the schema. Degrade to a
		// marked payload rather than failing the request.
		log.Printf("[CareService] unparseable response, degrading: %v", err)
		return degradedRecommendation(text), nil
	}
	return rec, nil
}

// degradedRecommendation wraps unparseable model output. ParseError lets
// clients tell this payload apart from a real recommendation; Raw carries
// the text the model actually produced.
func degradedRecommendation(text string) *models.CareRecommendation {
	trimmed := strings.TrimSpace(text)
	return &models.CareRecommendation{
		Health:     []string{trimmed},
		ParseError: true,
		Raw:        trimmed,
	}
}

func collectText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return b.String()
}

// parseCareRecommendation tolerates the model wrapping its JSON in a
// markdown code fence despite instructions.
func parseCareRecommendation(text string) (*models.CareRecommendation, error) {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var rec models.CareRecommendation
	if err := json.Unmarshal([]byte(trimmed), &rec); err != nil {
		return nil, err
	}
	if len(rec.Diet) == 0 && len(rec.Exercise) == 0 && len(rec.Health) == 0 {
		return nil, errors.New("empty recommendation payload")
	}
	return &rec, nil
}
