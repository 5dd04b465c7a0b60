package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AIService generates narrative summaries with the OpenAI chat completions
// API. It implements Summarizer; callers must treat it as optional and keep
// a deterministic fallback, since any failure here returns an error.
type AIService struct {
	apiKey     string
	apiURL     string
	enabled    bool
	httpClient *http.Client
}

type OpenAIRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OpenAIResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		apiKey:  apiKey,
		apiURL:  "https://api.openai.com/v1/chat/completions",
		enabled: apiKey != "",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Enabled reports whether an API key was configured.
func (s *AIService) Enabled() bool {
	return s.enabled
}

// Summarize generates a short friendly explanation of the payment strategy.
func (s *AIService) Summarize(ctx SummaryContext) (string, error) {
	if !s.enabled {
		return "", errors.New("ai summarizer is disabled")
	}

	context := fmt.Sprintf(`Name: %s
Current balance: $%s
Upcoming bills: $%s
Next paycheck: $%s on %s`,
		ctx.Snapshot.UserName,
		ctx.Snapshot.CurrentBalance.StringFixed(2),
		ctx.Snapshot.TotalUpcomingBills.StringFixed(2),
		ctx.Snapshot.PaycheckAmount.StringFixed(2),
		ctx.Snapshot.PaycheckDate)

	var items strings.Builder
	for _, item := range append(ctx.PayNowItems, ctx.DeferredItems...) {
		fmt.Fprintf(&items, "- %s ($%s, %s)\n", item.Name, item.Price.StringFixed(2), item.Category)
	}

	recommendation := fmt.Sprintf(`Pay now: %d items totaling $%s
Deferred: %d items totaling $%s (4 payments every 2 weeks)
Projected balance after the first payment: $%s`,
		len(ctx.PayNowItems), ctx.PayNowTotal.StringFixed(2),
		len(ctx.DeferredItems), ctx.DeferredTotal.StringFixed(2),
		ctx.ProjectedBalance.StringFixed(2))

	prompt := fmt.Sprintf(`You are helping a customer optimize their shopping payment strategy.

Context about the customer:
%s

Shopping cart items:
%s
Payment recommendation:
%s

Provide a brief, friendly explanation (2-3 sentences) of why this payment strategy makes sense for this customer. Focus on how it helps their cash flow and financial health. Be conversational but professional.`,
		context, items.String(), recommendation)

	return s.callLLM(prompt)
}

func (s *AIService) callLLM(prompt string) (string, error) {
	reqBody := OpenAIRequest{
		Model: "gpt-4o-mini",
		Messages: []Message{
			{
				Role:    "system",
				Content: "You are a friendly financial advisor. You explain payment strategies clearly and concisely, always grounded in the exact numbers you are given, and you never invent amounts or dates.",
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
		MaxTokens: 300,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var openAIResp OpenAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&openAIResp); err != nil {
		return "", err
	}

	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("no response from AI")
	}

	return openAIResp.Choices[0].Message.Content, nil
}
