package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-inventory/internal/catalog"
	"github.com/pixil98/go-inventory/internal/commands"
	"github.com/pixil98/go-inventory/internal/storage"
)

type StorageConfig struct {
	Items    AssetConfig[*catalog.ItemDef]  `json:"items"`
	Kits     AssetConfig[*catalog.Kit]      `json:"kits"`
	Commands AssetConfig[*commands.Command] `json:"commands"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Items.validate("items"))
	el.Add(c.Kits.validate("kits"))
	el.Add(c.Commands.validate("commands"))
	return el.Err()
}

func (c *StorageConfig) buildItemStore() (*storage.FileStore[*catalog.ItemDef], error) {
	schema, err := catalog.ItemSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling item schema: %w", err)
	}
	return c.Items.buildFileStore(storage.WithSchema(schema))
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) buildFileStore(opts ...storage.FileStoreOpt) (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path, opts...)
}
