package content

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/namecardai/namecard/pkg/domain"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

// Site identifies the product.
type Site struct {
	Name    string `yaml:"name" json:"name"`
	Tagline string `yaml:"tagline" json:"tagline"`
	URL     string `yaml:"url" json:"url"`
}

// Catalog is the immutable content of the site.
// Callers must not mutate a Catalog after it has been handed to a controller.
type Catalog struct {
	Site           Site                 `yaml:"site" json:"site"`
	Pages          []domain.PageMeta    `yaml:"pages" json:"pages"`
	Nav            []domain.NavItem     `yaml:"nav" json:"nav"`
	HeroStats      []domain.Stat        `yaml:"hero_stats" json:"hero_stats"`
	Benefits       []domain.Benefit     `yaml:"benefits" json:"benefits"`
	Testimonials   []domain.Testimonial `yaml:"testimonials" json:"testimonials"`
	Plans          []domain.Plan        `yaml:"plans" json:"plans"`
	Industries     []string             `yaml:"industries" json:"industries"`
	Levels         []domain.Level       `yaml:"levels" json:"levels"`
	Steps          []domain.Step        `yaml:"steps" json:"steps"`
	Profile        domain.Profile       `yaml:"profile" json:"profile"`
	Slides         []domain.Slide       `yaml:"slides" json:"slides"`
	DefaultQuarter string               `yaml:"default_quarter" json:"default_quarter"`
	Roadmap        []domain.Quarter     `yaml:"roadmap" json:"roadmap"`
	Advantages     []domain.Advantage   `yaml:"advantages" json:"advantages"`
}

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return Parse(embedded)
})

// Default returns the embedded catalog. The result is shared; treat it as read-only.
func Default() (*Catalog, error) {
	return defaultCatalog()
}

// Parse decodes a YAML catalog and validates it. Unknown keys are rejected.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the structural integrity of the catalog.
// All problems are reported together.
func (c *Catalog) Validate() error {
	var errs []error
	if err := domain.ValidateLevels(c.Levels); err != nil {
		errs = append(errs, err)
	}
	if err := domain.ValidateSteps(c.Steps); err != nil {
		errs = append(errs, err)
	}
	if len(c.Plans) == 0 {
		errs = append(errs, errors.New("catalog has no plans"))
	} else if _, ok := c.Plan(domain.DefaultPlan); !ok {
		errs = append(errs, fmt.Errorf("default plan %q is not in the catalog", domain.DefaultPlan))
	}
	if len(c.Slides) == 0 {
		errs = append(errs, errors.New("catalog has no slides"))
	}
	for i, s := range c.Slides {
		if s.ID != i+1 {
			errs = append(errs, fmt.Errorf("%w: slide at position %d has id %d", domain.ErrInvalidSequence, i, s.ID))
			break
		}
	}
	if _, ok := c.Quarter(c.DefaultQuarter); !ok {
		errs = append(errs, fmt.Errorf("default quarter %q is not in the roadmap", c.DefaultQuarter))
	}
	for _, q := range c.Roadmap {
		if q.Progress < 0 || q.Progress > 100 {
			errs = append(errs, fmt.Errorf("quarter %s: progress %d out of range", q.ID, q.Progress))
		}
	}
	seen := make(map[string]bool)
	for _, st := range c.Steps {
		for _, f := range st.Fields {
			if seen[f.Name] {
				errs = append(errs, fmt.Errorf("field %q declared twice", f.Name))
			}
			seen[f.Name] = true
		}
	}
	return errors.Join(errs...)
}

// Page returns the metadata for path, falling back to the home page.
func (c *Catalog) Page(path string) domain.PageMeta {
	for _, p := range c.Pages {
		if p.Path == path {
			return p
		}
	}
	for _, p := range c.Pages {
		if p.Path == "/" {
			return p
		}
	}
	return domain.PageMeta{Path: path, Title: c.Site.Name}
}

// Plan looks up a pricing tier by id.
func (c *Catalog) Plan(id string) (domain.Plan, bool) {
	for _, p := range c.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Plan{}, false
}

// HasIndustry reports whether name is one of the selectable industries.
func (c *Catalog) HasIndustry(name string) bool {
	return slices.Contains(c.Industries, name)
}

// Quarter looks up a roadmap milestone by id.
func (c *Catalog) Quarter(id string) (domain.Quarter, bool) {
	for _, q := range c.Roadmap {
		if q.ID == id {
			return q, true
		}
	}
	return domain.Quarter{}, false
}

// Step looks up a wizard step descriptor by id.
func (c *Catalog) Step(id int) (domain.Step, bool) {
	if id < 1 || id > len(c.Steps) {
		return domain.Step{}, false
	}
	return c.Steps[id-1], true
}

// WithSlides returns a shallow copy of c with the deck replaced.
func (c *Catalog) WithSlides(slides []domain.Slide) *Catalog {
	cp := *c
	cp.Slides = slides
	return &cp
}

// WithRoadmap returns a shallow copy of c with the roadmap replaced.
func (c *Catalog) WithRoadmap(quarters []domain.Quarter) *Catalog {
	cp := *c
	cp.Roadmap = quarters
	return &cp
}

// Embedded is a ContentSource serving the compiled-in catalog.
type Embedded struct{}

// Load returns the embedded catalog.
func (Embedded) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Default()
}
