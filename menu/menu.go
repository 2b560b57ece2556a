// Package menu holds the restaurant's read-only catalog of dishes.
package menu

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/ray-remotestate/comandas/models"
	"gopkg.in/yaml.v3"
)

var (
	ErrDuplicateItem = errors.New("duplicate menu item id")
	ErrNegativePrice = errors.New("negative menu item price")
)

//go:embed default.yaml
var defaultMenu []byte

// Catalog is built once at startup and never mutated afterwards, so it is safe
// for concurrent readers.
type Catalog struct {
	categories []models.Category
	byID       map[int]models.MenuItem
}

type file struct {
	Categories []models.Category `yaml:"categories"`
}

func New(categories []models.Category) (*Catalog, error) {
	c := &Catalog{
		categories: categories,
		byID:       make(map[int]models.MenuItem),
	}
	for _, cat := range categories {
		for _, item := range cat.Items {
			if _, ok := c.byID[item.ID]; ok {
				return nil, fmt.Errorf("%w: %d", ErrDuplicateItem, item.ID)
			}
			if item.Price.IsNegative() {
				return nil, fmt.Errorf("%w: %s", ErrNegativePrice, item.Name)
			}
			c.byID[item.ID] = item
		}
	}
	return c, nil
}

// Default returns the built-in menu.
func Default() (*Catalog, error) {
	return Parse(defaultMenu)
}

// Load reads a YAML menu file from disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse menu: %w", err)
	}
	return New(f.Categories)
}

// Lookup reports false for unknown ids; callers treat that as "ignore".
func (c *Catalog) Lookup(id int) (models.MenuItem, bool) {
	item, ok := c.byID[id]
	return item, ok
}

func (c *Catalog) Categories() []models.Category {
	return c.categories
}
