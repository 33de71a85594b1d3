// Package yamlfile reads a catalog from a YAML document.
package yamlfile

import (
	"context"
	_ "embed"
	"os"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/dwikikusuma/storefront/internal/catalog/domain"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

type document struct {
	Products []record `yaml:"products"`
}

type record struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Price       string         `yaml:"price"`
	ImageURL    string         `yaml:"image_url"`
	Category    string         `yaml:"category"`
	Colors      []domain.Color `yaml:"colors"`
	Sizes       []string       `yaml:"sizes"`
}

type Source struct {
	data []byte
	path string
}

// Default is the built-in storefront catalog.
func Default() *Source {
	return &Source{data: defaultCatalog}
}

func FromFile(path string) *Source {
	return &Source{path: path}
}

func FromBytes(data []byte) *Source {
	return &Source{data: data}
}

func (s *Source) Load(ctx context.Context) ([]domain.Product, error) {
	data := s.data
	if s.path != "" {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return nil, errors.Wrap(err, "read catalog file")
		}
		data = b
	}
	return Parse(data)
}

func Parse(data []byte) ([]domain.Product, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decode catalog yaml")
	}

	out := make([]domain.Product, 0, len(doc.Products))
	for _, r := range doc.Products {
		price, err := decimal.NewFromString(r.Price)
		if err != nil {
			return nil, errors.Wrapf(err, "product %q: price", r.ID)
		}
		out = append(out, domain.Product{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Price:       price,
			ImageURL:    r.ImageURL,
			Category:    r.Category,
			Colors:      r.Colors,
			Sizes:       r.Sizes,
		})
	}
	return out, nil
}
