// Package images turns raw image bytes or a local/remote source into stored
// square assets. Every failure here is ErrAsset; callers treat it as non-fatal
// and leave the room's image reference empty.
package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ErrAsset wraps any image source or processing failure.
var ErrAsset = errors.New("image asset failure")

const maxFetchBytes = 20 << 20

// Processor center-crops images to a square and resizes them to the
// configured size before storing them as PNG assets.
type Processor struct {
	dir    string
	width  int
	height int
	hc     *http.Client
}

func NewProcessor(dir, size string) (*Processor, error) {
	w, h, err := ParseSize(size)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating images dir: %w", err)
	}

	return &Processor{
		dir:    dir,
		width:  w,
		height: h,
		hc:     &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// ParseSize parses a "WIDTHxHEIGHT" string.
func ParseSize(size string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(size), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("size %q is not WIDTHxHEIGHT", size)
	}

	w, err := strconv.Atoi(parts[0])
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("size %q has invalid width", size)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("size %q has invalid height", size)
	}

	return w, h, nil
}

// ProcessBytes decodes raw image bytes and stores the cropped asset,
// returning the stored path.
func (p *Processor) ProcessBytes(data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: decoding image: %v", ErrAsset, err)
	}

	return p.store(img)
}

// ProcessSource reads a local file path or an http(s) URL and stores the
// cropped asset.
func (p *Processor) ProcessSource(ctx context.Context, src string) (string, error) {
	var data []byte
	var err error

	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		data, err = p.fetch(ctx, src)
	} else {
		data, err = os.ReadFile(src)
		if err != nil {
			err = fmt.Errorf("%w: reading %q: %v", ErrAsset, src, err)
		}
	}
	if err != nil {
		return "", err
	}

	return p.ProcessBytes(data)
}

func (p *Processor) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrAsset, err)
	}

	resp, err := p.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %q: %v", ErrAsset, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetching %q: status %d", ErrAsset, url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %v", ErrAsset, url, err)
	}

	return data, nil
}

func (p *Processor) store(img image.Image) (string, error) {
	// Fill crops to the target aspect ratio around the center, then resizes.
	out := imaging.Fill(img, p.width, p.height, imaging.Center, imaging.Lanczos)

	path := filepath.Join(p.dir, fmt.Sprintf("room_%s.png", uuid.New().String()))
	if err := imaging.Save(out, path); err != nil {
		return "", fmt.Errorf("%w: saving asset: %v", ErrAsset, err)
	}

	return path, nil
}
