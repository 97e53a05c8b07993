package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

type Config struct {
	Storage   StorageConfig    `json:"storage"`
	Game      GameConfig       `json:"game"`
	Providers ProvidersConfig  `json:"providers"`
	Upload    UploadConfig     `json:"upload"`
	Listeners []ListenerConfig `json:"listeners"`
	Nats      NatsConfig       `json:"nats"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	for i, l := range c.Listeners {
		err := l.validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Storage.validate())
	el.Add(c.Game.validate())
	el.Add(c.Providers.validate())
	el.Add(c.Upload.validate())
	el.Add(c.Nats.validate())

	return el.Err()
}
