// Package ai implements ports.ChatClient over any JSON chat-completion API.
//
// Provider differences (auth header, system prompt placement, content shape,
// response location) are read from the model's APIFormat, so one client
// serves OpenAI, Anthropic, Ollama and compatible endpoints.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/doeshing/shai-sense/internal/domain"
	"github.com/doeshing/shai-sense/internal/ports"
)

// Factory creates chat clients that share one HTTP client.
type Factory struct {
	http *resty.Client
}

// NewFactory creates a factory whose requests time out after timeout
// (domain.DefaultHTTPClientTimeout when zero).
func NewFactory(timeout time.Duration) *Factory {
	if timeout <= 0 {
		timeout = domain.DefaultHTTPClientTimeout
	}
	return &Factory{http: resty.New().SetTimeout(timeout)}
}

// ForModel returns a client for model. The API key is resolved on every
// call so a missing key surfaces as a provider error, not a startup failure.
func (f *Factory) ForModel(model domain.ModelDefinition) (ports.ChatClient, error) {
	if strings.TrimSpace(model.Endpoint) == "" {
		return nil, fmt.Errorf("model %s has no endpoint", model.Name)
	}
	return &chatClient{model: model, http: f.http}, nil
}

var _ ports.ChatClientFactory = (*Factory)(nil)

type chatClient struct {
	model domain.ModelDefinition
	http  *resty.Client
}

func (c *chatClient) Chat(ctx context.Context, systemPrompt, userPrompt string) (ports.ChatResponse, error) {
	headers, err := c.headers()
	if err != nil {
		return ports.ChatResponse{}, err
	}

	body := buildRequestBody(c.model, c.messages(systemPrompt, userPrompt))
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetBody(body).
		Post(c.model.Endpoint)
	if err != nil {
		return ports.ChatResponse{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	if resp.IsError() {
		return ports.ChatResponse{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode(), resp.Status())
	}

	content, err := parseResponse(resp.Body(), c.model.APIFormat.GetResponseJSONPath())
	if err != nil {
		return ports.ChatResponse{}, fmt.Errorf("parse response: %w", err)
	}
	return ports.ChatResponse{Content: content}, nil
}

// messages places the model's configured system lines ahead of the caller's.
func (c *chatClient) messages(systemPrompt, userPrompt string) []domain.PromptMessage {
	var system []string
	for _, msg := range c.model.Prompt {
		if strings.EqualFold(msg.Role, "system") && strings.TrimSpace(msg.Content) != "" {
			system = append(system, strings.TrimSpace(msg.Content))
		}
	}
	if systemPrompt != "" {
		system = append(system, systemPrompt)
	}

	var out []domain.PromptMessage
	if len(system) > 0 {
		out = append(out, domain.PromptMessage{Role: "system", Content: strings.Join(system, "\n\n")})
	}
	return append(out, domain.PromptMessage{Role: "user", Content: userPrompt})
}

func (c *chatClient) headers() (map[string]string, error) {
	key := ""
	if c.model.AuthEnvVar != "" {
		key = os.Getenv(c.model.AuthEnvVar)
	}
	if key == "" && c.model.AuthEnvVar != "" {
		return nil, fmt.Errorf("missing API key: set %s environment variable", c.model.AuthEnvVar)
	}

	format := c.model.APIFormat
	headers := map[string]string{"Content-Type": "application/json"}
	if key != "" {
		headers[format.GetAuthHeaderName()] = format.GetAuthHeaderPrefix() + key
	}
	if c.model.OrgEnvVar != "" {
		if org := os.Getenv(c.model.OrgEnvVar); org != "" {
			headers["OpenAI-Organization"] = org
		}
	}
	for k, v := range format.ExtraHeaders {
		headers[k] = v
	}
	return headers, nil
}

func buildRequestBody(model domain.ModelDefinition, messages []domain.PromptMessage) map[string]interface{} {
	format := model.APIFormat
	maxTokens := model.MaxTokens
	if maxTokens <= 0 {
		maxTokens = domain.DefaultMaxTokens
	}
	request := map[string]interface{}{
		"model":      model.ModelID,
		"max_tokens": maxTokens,
	}

	if !format.IsSystemMessageSeparate() {
		chat := make([]map[string]interface{}, 0, len(messages))
		for _, msg := range messages {
			chat = append(chat, formatMessage(msg, format))
		}
		request["messages"] = chat
		return request
	}

	var system []string
	chat := make([]map[string]interface{}, 0, len(messages))
	for _, msg := range messages {
		if strings.EqualFold(msg.Role, "system") {
			system = append(system, msg.Content)
			continue
		}
		chat = append(chat, formatMessage(msg, format))
	}
	if joined := strings.TrimSpace(strings.Join(system, "\n")); joined != "" {
		request["system"] = joined
	}
	request["messages"] = chat
	return request
}

func formatMessage(msg domain.PromptMessage, format domain.APIFormat) map[string]interface{} {
	message := map[string]interface{}{"role": strings.ToLower(msg.Role)}
	if format.IsContentWrapped() {
		message["content"] = []map[string]string{{"type": "text", "text": msg.Content}}
	} else {
		message["content"] = msg.Content
	}
	return message
}

func parseResponse(body []byte, path string) (string, error) {
	var response map[string]interface{}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("unmarshal JSON: %w", err)
	}
	content, err := extractJSONPath(response, path)
	if err != nil {
		return "", fmt.Errorf("extract from path '%s': %w", path, err)
	}
	return strings.TrimSpace(content), nil
}
