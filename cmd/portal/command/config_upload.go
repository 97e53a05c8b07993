package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-portal/internal/images"
	"github.com/pixil98/go-portal/internal/upload"
)

type UploadConfig struct {
	Port    uint16 `json:"port"`
	Timeout string `json:"timeout"`
}

func (c *UploadConfig) validate() error {
	el := errors.NewErrorList()

	if c.Timeout != "" {
		_, err := time.ParseDuration(c.Timeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing timeout: %w", err))
		}
	}

	return el.Err()
}

func (c *UploadConfig) BuildExchange(proc *images.Processor) (*upload.Exchange, error) {
	var opts []upload.ExchangeOpt
	if c.Port != 0 {
		opts = append(opts, upload.WithPort(int(c.Port)))
	}
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parsing timeout: %w", err)
		}
		opts = append(opts, upload.WithTimeout(d))
	}

	return upload.NewExchange(proc, opts...), nil
}
