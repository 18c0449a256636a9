// Package catalog loads the products a fresh store starts with.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"techStore/models"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

type seedFile struct {
	Products []models.Product `yaml:"products"`
}

// Default returns the built-in seed catalog.
func Default() ([]models.Product, error) {
	return Parse(defaultSeed)
}

// Load reads a seed catalog from path, or the built-in one when path is empty.
func Load(path string) ([]models.Product, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) ([]models.Product, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f seedFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode seed catalog: %w", err)
	}

	seen := make(map[int]bool, len(f.Products))
	for i, p := range f.Products {
		switch {
		case p.Id <= 0:
			return nil, fmt.Errorf("seed product %d: id must be positive", i)
		case seen[p.Id]:
			return nil, fmt.Errorf("seed product %d: duplicate id %d", i, p.Id)
		case p.Name == "":
			return nil, fmt.Errorf("seed product %d: name is empty", p.Id)
		case p.Price < 0:
			return nil, fmt.Errorf("seed product %d: price is negative", p.Id)
		case p.Quantity < 0:
			return nil, fmt.Errorf("seed product %d: quantity is negative", p.Id)
		}
		seen[p.Id] = true
		if p.Category == "" {
			f.Products[i].Category = models.DefaultCategory
		}
		if p.Image == "" {
			f.Products[i].Image = models.DefaultImage
		}
	}
	return f.Products, nil
}
