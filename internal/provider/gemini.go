// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// Gemini adapts the Gemini API via the official Go SDK.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates the adapter. An empty model selects the default.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Name returns the provider identifier.
func (g *Gemini) Name() string {
	return "gemini"
}

// Translate sends the rendered prompt and returns the raw model text.
func (g *Gemini) Translate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && apiErr.Code > 0 {
			return "", &APIError{
				Provider:   g.Name(),
				StatusCode: apiErr.Code,
				Body:       truncate(apiErr.Message, 200),
			}
		}
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", &ParseError{Err: fmt.Errorf("no text content in Gemini response")}
	}
	return text, nil
}
