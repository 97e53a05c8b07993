package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-portal/internal/game"
	"github.com/pixil98/go-portal/internal/images"
	"github.com/pixil98/go-portal/internal/provider"
)

type ProvidersConfig struct {
	Text  TextProviderConfig  `json:"text"`
	Image ImageProviderConfig `json:"image"`
}

func (c *ProvidersConfig) validate() error {
	el := errors.NewErrorList()

	el.Add(c.Text.validate())
	el.Add(c.Image.validate())

	return el.Err()
}

type TextProviderConfig struct {
	Name    string `json:"name"`
	ApiKey  string `json:"api_key"`
	BaseUrl string `json:"base_url"`
	Model   string `json:"model"`
	Timeout string `json:"timeout"`
}

func (c *TextProviderConfig) validate() error {
	el := errors.NewErrorList()

	switch c.Name {
	case "", "static":
	case "openai":
		if c.ApiKey == "" {
			el.Add(fmt.Errorf("api_key is required for the openai provider"))
		}
	default:
		el.Add(fmt.Errorf("unknown text provider: %s", c.Name))
	}

	if c.Timeout != "" {
		if _, err := time.ParseDuration(c.Timeout); err != nil {
			el.Add(fmt.Errorf("parsing timeout: %w", err))
		}
	}

	return el.Err()
}

func (c *TextProviderConfig) BuildTextProvider() (provider.TextProvider, error) {
	switch c.Name {
	case "", "static":
		return provider.NewStatic(), nil
	case "openai":
		return provider.NewOpenAIClient(c.ApiKey, c.openAIOpts()...), nil
	default:
		return nil, fmt.Errorf("unknown text provider: %s", c.Name)
	}
}

func (c *TextProviderConfig) openAIOpts() []provider.OpenAIOpt {
	var opts []provider.OpenAIOpt
	if c.BaseUrl != "" {
		opts = append(opts, provider.WithBaseUrl(c.BaseUrl))
	}
	if c.Model != "" {
		opts = append(opts, provider.WithTextModel(c.Model))
	}
	if c.Timeout != "" {
		d, _ := time.ParseDuration(c.Timeout)
		opts = append(opts, provider.WithTimeout(d))
	}
	return opts
}

type ImageProviderConfig struct {
	Name    string `json:"name"`
	ApiKey  string `json:"api_key"`
	BaseUrl string `json:"base_url"`
	Model   string `json:"model"`
	Size    string `json:"size"`
}

func (c *ImageProviderConfig) validate() error {
	el := errors.NewErrorList()

	switch c.Name {
	case "", "none":
	case "openai":
		if c.ApiKey == "" {
			el.Add(fmt.Errorf("api_key is required for the openai provider"))
		}
	default:
		el.Add(fmt.Errorf("unknown image provider: %s", c.Name))
	}

	if c.Size != "" {
		if _, _, err := images.ParseSize(c.Size); err != nil {
			el.Add(err)
		}
	}

	return el.Err()
}

// ImageSize is the target size for both generated and processed images.
func (c *ImageProviderConfig) ImageSize() string {
	if c.Size == "" {
		return game.DefaultImageSize
	}
	return c.Size
}

// BuildImageProvider returns nil when image generation is disabled.
func (c *ImageProviderConfig) BuildImageProvider() (provider.ImageProvider, error) {
	switch c.Name {
	case "", "none":
		return nil, nil
	case "openai":
		var opts []provider.OpenAIOpt
		if c.BaseUrl != "" {
			opts = append(opts, provider.WithBaseUrl(c.BaseUrl))
		}
		if c.Model != "" {
			opts = append(opts, provider.WithImageModel(c.Model))
		}
		return provider.NewOpenAIClient(c.ApiKey, opts...), nil
	default:
		return nil, fmt.Errorf("unknown image provider: %s", c.Name)
	}
}
