package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/SAsh-1102/AI-Sales-Agent/models"
)

// Catalog holds the static product records. Loaded once at startup and
// read-only afterwards.
type Catalog struct {
	products []models.Product
}

// NewCatalog validates and wraps a product list. Products without a
// model code are rejected, as are duplicate model codes.
func NewCatalog(products []models.Product) (*Catalog, error) {
	seen := make(map[string]bool, len(products))
	for i, p := range products {
		model := p.Model()
		if model == "" {
			return nil, fmt.Errorf("product %d has no model code", i)
		}
		if seen[model] {
			return nil, fmt.Errorf("duplicate model code %q", model)
		}
		seen[model] = true
	}
	return &Catalog{products: products}, nil
}

// LoadCatalog reads products from a JSON file, or returns the built-in
// catalog when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		slog.Info("Using built-in product catalog", "products", len(defaultProducts))
		return NewCatalog(defaultProducts)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	slog.Info("Loaded product catalog", "path", path, "products", len(products))
	return NewCatalog(products)
}

// Products returns the catalog entries in load order.
func (c *Catalog) Products() []models.Product {
	return c.products
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.products)
}

// ByModel looks a product up by its unique model code.
func (c *Catalog) ByModel(model string) (models.Product, bool) {
	for _, p := range c.products {
		if p.Model() == model {
			return p, true
		}
	}
	return nil, false
}

// ProductText renders one product as a single line for embeddings and
// for the LLM system prompt. Identifier-internal keys are skipped.
func ProductText(p models.Product) string {
	parts := []string{fmt.Sprintf("Name: %s", p.Name())}
	if model := p.Model(); model != "" {
		parts = append(parts, fmt.Sprintf("Model: %s", model))
	}

	keys := make([]string, 0, len(p))
	for k := range p {
		if identifierKeys[k] {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if v := strings.TrimSpace(p[k]); v != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", k, v))
		}
	}
	return strings.Join(parts, " | ")
}

// Describe renders the whole catalog, one product per line.
func (c *Catalog) Describe() string {
	lines := make([]string, 0, len(c.products))
	for _, p := range c.products {
		lines = append(lines, "- "+ProductText(p))
	}
	return strings.Join(lines, "\n")
}
