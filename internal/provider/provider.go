// Package provider holds the text and image generation collaborators the room
// factory consumes. Providers are single-attempt: a failure is surfaced once
// and the caller falls back, nothing here retries.
package provider

import (
	"context"
	"errors"
	"fmt"
)

// ErrProvider wraps any generation failure (unreachable endpoint, bad
// credentials, unparseable output).
var ErrProvider = errors.New("generation provider failure")

// RoomContent is the structured record a text provider returns.
type RoomContent struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	ImagePrompt string            `json:"image_prompt"`
	ExitLabels  map[string]string `json:"exit_labels"`
}

// Label returns the exit label for a display slot, or fallback when unset.
func (c *RoomContent) Label(slot, fallback string) string {
	if c.ExitLabels == nil {
		return fallback
	}
	if l := c.ExitLabels[slot]; l != "" {
		return l
	}
	return fallback
}

// FallbackContent is the placeholder a room is built from when the text
// provider fails. Provider failure never aborts room creation.
func FallbackContent(id int) *RoomContent {
	return &RoomContent{
		Title:       fmt.Sprintf("Room %d", id),
		Description: "An indescribable place.",
	}
}

// TextProvider generates room content, optionally steered by a seed phrase.
type TextProvider interface {
	GenerateRoom(ctx context.Context, seed string) (*RoomContent, error)
}

// ImageProvider renders a prompt at a target pixel size ("WIDTHxHEIGHT") and
// returns raw image bytes.
type ImageProvider interface {
	Generate(ctx context.Context, prompt string, size string) ([]byte, error)
}
