package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// GeminiService asks a multimodal Gemini model for a nutrition estimate of a
// food photo. One attempt per request, no retries.
type GeminiService struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewGeminiService(baseURL, apiKey, model string, timeout time.Duration) *GeminiService {
	return &GeminiService{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type geminiPart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *geminiBlobPart `json:"inline_data,omitempty"`
}

type geminiBlobPart struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiSafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	CandidateCount  int     `json:"candidateCount"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
	SafetySettings   []geminiSafetySetting  `json:"safetySettings"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// Sampling parameters are fixed service configuration, not request-tunable.
var generationConfig = geminiGenerationConfig{
	Temperature:     0.4,
	TopP:            1,
	TopK:            32,
	MaxOutputTokens: 1024,
	CandidateCount:  1,
}

var safetySettings = []geminiSafetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

// AnalyzeMeal sends the photo plus instruction prompt to the model and returns
// its raw text reply. Safety blocks come back as ErrContentBlocked so the
// handler can surface them instead of a bare upstream error.
func (s *GeminiService) AnalyzeMeal(ctx context.Context, image []byte, mimeType, foodName, foodQuantity string) (string, error) {
	if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/jpeg"
	}

	body := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{Text: buildPrompt(foodName, foodQuantity)},
				{InlineData: &geminiBlobPart{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(image),
				}},
			},
		}},
		GenerationConfig: generationConfig,
		SafetySettings:   safetySettings,
	}
	payload, _ := json.Marshal(body)

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return "", ErrUpstreamTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstreamUnavailable, resp.StatusCode, data)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	var result geminiResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if result.PromptFeedback.BlockReason != "" {
		return "", ErrContentBlocked
	}
	if len(result.Candidates) == 0 {
		return "", ErrContentBlocked
	}
	if result.Candidates[0].FinishReason == "SAFETY" {
		return "", ErrContentBlocked
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

func buildPrompt(foodName, foodQuantity string) string {
	quantity := "Look for size references in the image (coins, hands) to estimate portion size, or estimate yourself if no reference is found"
	if foodQuantity != "" {
		quantity = "Quantity: " + foodQuantity
	}

	return fmt.Sprintf(`Analyze the meal in the attached image and estimate the macros and calories.

Food name: %s
%s

make sure the results do fit these proportions:
Protein = 4 kcal per gram
Carbs = 4 kcal per gram
Fats = 9 kcal per gram

Return ONLY a valid JSON object with the following fields. All numbers must:
- Be in raw number format (e.g., 1000 instead of 1,000; 100 instead of 100.0)
- Not include any units like "kcal" or "g"
- Not be enclosed in quotes (they must be actual numerical values)

{
    "calories": 1000,
    "proteins": 20,
    "carbs": 50,
    "fats": 10
}`, foodName, quantity)
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
