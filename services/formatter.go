package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SAsh-1102/AI-Sales-Agent/models"
)

// missingValue is rendered for attributes a product does not carry.
const missingValue = "N/A"

// alwaysShownSpecs appear in every comparison regardless of whether the
// values differ, in this order.
var alwaysShownSpecs = []string{
	"price",
	"processor",
	"memory",
	"storage",
	"graphics",
	"display",
	"cooling",
	"category",
}

// identifierKeys never appear as comparison rows. stripe_price_id is
// the internal billing reference.
var identifierKeys = map[string]bool{
	"name":            true,
	"model":           true,
	"stripe_price_id": true,
}

// ComparisonTable is a spec-by-spec diff of two or more products.
type ComparisonTable struct {
	Headers []string        `json:"headers"` // product names
	Rows    []ComparisonRow `json:"rows"`
}

// ComparisonRow holds one spec and its value per product, aligned with
// Headers.
type ComparisonRow struct {
	Spec   string   `json:"spec"`
	Values []string `json:"values"`
}

// BuildComparisonTable diffs the given products. A key becomes a row
// iff it is an always-shown spec or its values differ across the
// products; identifier keys are excluded outright. An empty row set is
// replaced by a single explanatory row.
func BuildComparisonTable(products []models.Product) ComparisonTable {
	table := ComparisonTable{}
	for _, p := range products {
		table.Headers = append(table.Headers, p.Name())
	}

	alwaysShown := make(map[string]bool, len(alwaysShownSpecs))
	for _, k := range alwaysShownSpecs {
		alwaysShown[k] = true
	}

	// Union of attribute keys across all products.
	union := make(map[string]bool)
	for _, p := range products {
		for k := range p {
			if !identifierKeys[k] {
				union[k] = true
			}
		}
	}

	// Always-shown keys first in fixed order, then the rest sorted.
	var ordered []string
	for _, k := range alwaysShownSpecs {
		if union[k] {
			ordered = append(ordered, k)
		}
	}
	var extra []string
	for k := range union {
		if !alwaysShown[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	ordered = append(ordered, extra...)

	for _, key := range ordered {
		values := make([]string, 0, len(products))
		differs := false
		for i, p := range products {
			v := p[key]
			if v == "" {
				v = missingValue
			}
			if i > 0 && v != values[0] {
				differs = true
			}
			values = append(values, v)
		}
		if alwaysShown[key] || differs {
			table.Rows = append(table.Rows, ComparisonRow{Spec: key, Values: values})
		}
	}

	if len(table.Rows) == 0 {
		table.Rows = append(table.Rows, ComparisonRow{
			Spec:   "specs",
			Values: []string{"no differing specifications on record"},
		})
	}

	return table
}

// Markdown renders the table for the reply text.
func (t ComparisonTable) Markdown() string {
	var b strings.Builder

	b.WriteString("| Spec |")
	for _, h := range t.Headers {
		b.WriteString(" " + h + " |")
	}
	b.WriteString("\n|---|")
	for range t.Headers {
		b.WriteString("---|")
	}
	b.WriteString("\n")

	for _, row := range t.Rows {
		b.WriteString("| " + row.Spec + " |")
		for i := range t.Headers {
			v := missingValue
			if i < len(row.Values) {
				v = row.Values[i]
			}
			b.WriteString(" " + v + " |")
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatComparison renders a comparison reply with a short lead-in.
func FormatComparison(products []models.Product) string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name())
	}
	table := BuildComparisonTable(products)
	return fmt.Sprintf("Here is how %s compare:\n\n%s",
		strings.Join(names, " and "), table.Markdown())
}

// FormatSingleProduct renders one product as a sentence: name,
// category and price first, then the remaining attributes as
// comma-joined key: value pairs.
func FormatSingleProduct(p models.Product) string {
	var b strings.Builder
	b.WriteString(p.Name())

	if category := p["category"]; category != "" {
		b.WriteString(" is a " + category)
	}
	if price := p["price"]; price != "" {
		b.WriteString(" priced at " + price)
	}
	b.WriteString(".")

	keys := make([]string, 0, len(p))
	for k := range p {
		if identifierKeys[k] || k == "category" || k == "price" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if len(keys) > 0 {
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s: %s", k, p[k]))
		}
		b.WriteString(" Specifications: " + strings.Join(pairs, ", ") + ".")
	}

	return b.String()
}
