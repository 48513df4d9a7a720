// Package catalog holds the read-only marketplace records (products, orders,
// customers, sellers, disputes, seller applications) that the listing pages
// and dashboards are computed from.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/softmatrices/forique-sub000/pkg/slug"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Catalog is an immutable snapshot of marketplace records. Accessors return
// the underlying slices; callers must treat them as read-only.
type Catalog struct {
	Products     []Product     `yaml:"products"`
	Orders       []Order       `yaml:"orders"`
	Customers    []Customer    `yaml:"customers"`
	Sellers      []Seller      `yaml:"sellers"`
	Disputes     []Dispute     `yaml:"disputes"`
	Applications []Application `yaml:"applications"`
}

// Load decodes a catalog from YAML.
func Load(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.prepare(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads a catalog from the YAML file at path. An empty path loads
// the embedded fixtures.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the catalog built from the embedded fixtures.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultFixtures))
}

// ProductByID returns the product with the given id.
func (c *Catalog) ProductByID(id string) (Product, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// SellerByID returns the seller with the given id.
func (c *Catalog) SellerByID(id string) (Seller, bool) {
	for _, s := range c.Sellers {
		if s.ID == id {
			return s, true
		}
	}
	return Seller{}, false
}

// prepare fills derived fields and rejects duplicate product ids.
func (c *Catalog) prepare() error {
	seen := make(map[string]struct{}, len(c.Products))
	for i := range c.Products {
		p := &c.Products[i]
		if p.ID == "" {
			return fmt.Errorf("catalog: product %d has no id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("catalog: duplicate product id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
		if p.Slug == "" {
			p.Slug = slug.Generate(p.Name)
		}
		if p.OriginalPrice == 0 {
			p.OriginalPrice = p.Price
		}
	}
	return nil
}
