// Package catalog holds the read-only product dataset and the intake-limit
// constants. The dataset is embedded at build time and never mutated.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var rawCatalog []byte

// ProductID identifies a product within the catalog. It is backed by the
// product's position in the dataset and is the foreign key used by the
// favorites, recents, and plan stores.
type ProductID int

type Product struct {
	Name       string   `yaml:"name"`
	Category   string   `yaml:"category"`
	CaffeineMg float64  `yaml:"caffeine_mg"`
	SugarG     *float64 `yaml:"sugar_g"`
}

// SugarKnown reports whether the dataset publishes a sugar figure.
func (p Product) SugarKnown() bool {
	return p.SugarG != nil
}

type CaffeineRule struct {
	MgPerKg    float64 `yaml:"mg_per_kg"`
	MaxDailyMg float64 `yaml:"max_daily_mg"`
}

type Limits struct {
	Caffeine map[string]CaffeineRule `yaml:"caffeine"`
	Sugar    map[string]float64      `yaml:"sugar"`
}

type Entry struct {
	ID      ProductID
	Product Product
}

type Repository struct {
	products []Product
	limits   Limits
}

type dataset struct {
	Limits   Limits    `yaml:"limits"`
	Products []Product `yaml:"products"`
}

// Load parses the embedded dataset. The result is immutable.
func Load() (*Repository, error) {
	var ds dataset
	if err := yaml.Unmarshal(rawCatalog, &ds); err != nil {
		return nil, fmt.Errorf("parse embedded catalog: %w", err)
	}
	if len(ds.Products) == 0 {
		return nil, fmt.Errorf("embedded catalog has no products")
	}
	for i, p := range ds.Products {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("catalog product %d has no name", i)
		}
		if p.CaffeineMg < 0 {
			return nil, fmt.Errorf("catalog product %q has negative caffeine", p.Name)
		}
		if p.SugarG != nil && *p.SugarG < 0 {
			return nil, fmt.Errorf("catalog product %q has negative sugar", p.Name)
		}
	}
	return &Repository{products: ds.Products, limits: ds.Limits}, nil
}

// New builds a repository from explicit data. The CLI always loads the
// embedded dataset; tests use New to pin down exact product attributes.
func New(limits Limits, products []Product) *Repository {
	return &Repository{products: products, limits: limits}
}

var defaultRepo = sync.OnceValues(Load)

// Default returns the process-wide catalog, parsed once.
func Default() (*Repository, error) {
	return defaultRepo()
}

func (r *Repository) Len() int {
	return len(r.products)
}

func (r *Repository) Get(id ProductID) (Product, bool) {
	if int(id) < 0 || int(id) >= len(r.products) {
		return Product{}, false
	}
	return r.products[id], true
}

// All returns every product in catalog order.
func (r *Repository) All() []Entry {
	out := make([]Entry, len(r.products))
	for i, p := range r.products {
		out[i] = Entry{ID: ProductID(i), Product: p}
	}
	return out
}

// Categories returns the distinct category names, sorted.
func (r *Repository) Categories() []string {
	seen := map[string]bool{}
	for _, p := range r.products {
		if p.Category != "" {
			seen[p.Category] = true
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (r *Repository) ByCategory(category string) []Entry {
	out := make([]Entry, 0)
	for i, p := range r.products {
		if p.Category == category {
			out = append(out, Entry{ID: ProductID(i), Product: p})
		}
	}
	return out
}

// Search matches product names case-insensitively by substring.
func (r *Repository) Search(query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Entry, 0)
	if q == "" {
		return out
	}
	for i, p := range r.products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, Entry{ID: ProductID(i), Product: p})
		}
	}
	return out
}

func (r *Repository) Limits() Limits {
	return r.limits
}
