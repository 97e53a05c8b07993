package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-portal/internal/images"
	"github.com/pixil98/go-portal/internal/world"
)

type StorageConfig struct {
	WorldPath string `json:"world_path"`
	ImagesDir string `json:"images_dir"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()

	if c.WorldPath == "" {
		el.Add(fmt.Errorf("world_path is required"))
	}
	if c.ImagesDir == "" {
		el.Add(fmt.Errorf("images_dir is required"))
	}

	return el.Err()
}

func (c *StorageConfig) BuildStore() (*world.Store, error) {
	return world.Open(c.WorldPath)
}

func (c *StorageConfig) BuildProcessor(size string) (*images.Processor, error) {
	return images.NewProcessor(c.ImagesDir, size)
}
