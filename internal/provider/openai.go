package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseUrl     = "https://api.openai.com/v1"
	defaultTextModel   = "gpt-4o-mini"
	defaultImageModel  = "dall-e-3"
	defaultHTTPTimeout = 60 * time.Second
)

const roomSystemPrompt = `You invent rooms for a portal maze text adventure. ` +
	`The doorway the player entered through has always vanished; the room offers two portals onward. ` +
	`Respond with a single JSON object and no prose, with keys: ` +
	`"title" (short evocative room name), ` +
	`"description" (2-4 sentences, second person), ` +
	`"image_prompt" (one sentence for an illustrator), ` +
	`"exit_labels" (object with keys "1" and "2", short portal names).`

// OpenAIClient talks to an OpenAI-compatible API for both room text (chat
// completions) and room images (image generations).
type OpenAIClient struct {
	baseUrl    string
	apiKey     string
	textModel  string
	imageModel string
	hc         *http.Client
}

type OpenAIOpt func(*OpenAIClient)

func WithBaseUrl(url string) OpenAIOpt {
	return func(c *OpenAIClient) {
		c.baseUrl = strings.TrimSuffix(url, "/")
	}
}

func WithTextModel(model string) OpenAIOpt {
	return func(c *OpenAIClient) {
		c.textModel = model
	}
}

func WithImageModel(model string) OpenAIOpt {
	return func(c *OpenAIClient) {
		c.imageModel = model
	}
}

func WithTimeout(d time.Duration) OpenAIOpt {
	return func(c *OpenAIClient) {
		c.hc.Timeout = d
	}
}

func NewOpenAIClient(apiKey string, opts ...OpenAIOpt) *OpenAIClient {
	c := &OpenAIClient{
		baseUrl:    DefaultBaseUrl,
		apiKey:     apiKey,
		textModel:  defaultTextModel,
		imageModel: defaultImageModel,
		hc:         &http.Client{Timeout: defaultHTTPTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClient) GenerateRoom(ctx context.Context, seed string) (*RoomContent, error) {
	user := "Invent the next room."
	if seed != "" {
		user = fmt.Sprintf("Invent the next room. Theme hint: %s", seed)
	}

	req := chatRequest{
		Model: c.textModel,
		Messages: []chatMessage{
			{Role: "system", Content: roomSystemPrompt},
			{Role: "user", Content: user},
		},
		Temperature: 0.9,
	}

	var resp chatResponse
	if err := c.post(ctx, "/chat/completions", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: response contained no choices", ErrProvider)
	}

	return CoerceContent(resp.Choices[0].Message.Content), nil
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	Size           string `json:"size"`
	N              int    `json:"n"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		B64 string `json:"b64_json"`
	} `json:"data"`
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string, size string) ([]byte, error) {
	req := imageRequest{
		Model:          c.imageModel,
		Prompt:         prompt,
		Size:           size,
		N:              1,
		ResponseFormat: "b64_json",
	}

	var resp imageResponse
	if err := c.post(ctx, "/images/generations", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: response contained no images", ErrProvider)
	}

	img, err := base64.StdEncoding.DecodeString(resp.Data[0].B64)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding image payload: %v", ErrProvider, err)
	}

	return img, nil
}

func (c *OpenAIClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d", ErrProvider, path, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrProvider, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: unmarshalling response: %v", ErrProvider, err)
	}

	return nil
}

// CoerceContent turns raw model output into RoomContent. Strict JSON (fenced
// or bare) is parsed as-is; anything else becomes the description of an
// otherwise generic room.
func CoerceContent(raw string) *RoomContent {
	text := strings.TrimSpace(raw)

	jsonText := text
	if strings.HasPrefix(jsonText, "```") {
		jsonText = strings.TrimPrefix(jsonText, "```json")
		jsonText = strings.TrimPrefix(jsonText, "```")
		jsonText = strings.TrimSuffix(strings.TrimSpace(jsonText), "```")
		jsonText = strings.TrimSpace(jsonText)
	}

	content := &RoomContent{}
	if err := json.Unmarshal([]byte(jsonText), content); err == nil {
		if content.Title == "" {
			content.Title = "An Unnamed Chamber"
		}
		return content
	}

	return &RoomContent{
		Title:       "An Unnamed Chamber",
		Description: text,
	}
}
