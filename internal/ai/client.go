package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"procurechain_backend/internal/config"
	"procurechain_backend/internal/logger"

	"google.golang.org/genai"
)

// Client - тонкая обертка над Gemini. Без API-ключа работает в
// mock-режиме и отдает детерминированные структуры, чтобы платформа
// жила офлайн.
type Client struct {
	genai         *genai.Client
	model         string
	fallbackModel string
	timeout       time.Duration
	mock          bool
}

func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	c := &Client{
		model:         cfg.Gemini.Model,
		fallbackModel: cfg.Gemini.FallbackModel,
		timeout:       time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second,
	}

	if cfg.Gemini.APIKey == "" {
		c.mock = true
		logger.CtxInfo(ctx, "gemini api key not configured, ai runs in mock mode")
		return c, nil
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	c.genai = gc
	return c, nil
}

func (c *Client) MockMode() bool { return c.mock }

func (c *Client) ModelName() string { return c.model }

func (c *Client) FallbackModelName() string { return c.fallbackModel }

// GenerateJSON выполняет промпт и распаковывает JSON-ответ модели в
// dest. Основная модель, при отказе fallback. Mock-режим обрабатывает
// вызывающий сервис, сюда он не доходит.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, dest interface{}) error {
	if c.mock {
		return fmt.Errorf("ai client in mock mode")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.generateText(ctx, c.model, prompt)
	if err != nil {
		logger.CtxWarn(ctx, "primary model failed, trying fallback",
			"model", c.model, "fallback", c.fallbackModel, "error", err)
		text, err = c.generateText(ctx, c.fallbackModel, prompt)
		if err != nil {
			return fmt.Errorf("gemini generate: %w", err)
		}
	}

	payload := ExtractJSON(text)
	if payload == "" {
		return fmt.Errorf("no json object in model response")
	}
	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		return fmt.Errorf("parse model response: %w", err)
	}
	return nil
}

func (c *Client) generateText(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.genai.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			builder.WriteString(part.Text)
		}
	}
	if builder.Len() == 0 {
		return "", fmt.Errorf("empty model response")
	}
	return builder.String(), nil
}

// ExtractJSON вырезает JSON-объект из текста модели: снимает
// ```json-ограждения и берет содержимое от первой { до последней }.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}
