package domain

// PageMeta carries the document title and description of a page.
type PageMeta struct {
	Path        string `json:"path" yaml:"path"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// NavItem is a header navigation entry.
type NavItem struct {
	Href  string `json:"href" yaml:"href"`
	Label string `json:"label" yaml:"label"`
}

// Stat is a labelled figure shown on hero sections and slides.
type Stat struct {
	Label string `json:"label" yaml:"label" mapstructure:"label"`
	Value string `json:"value" yaml:"value" mapstructure:"value"`
	Tone  string `json:"tone,omitempty" yaml:"tone" mapstructure:"tone"`
}

// Plan is a pricing tier selectable in the sign-up wizard.
type Plan struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Price    string   `json:"price" yaml:"price"`
	Period   string   `json:"period" yaml:"period"`
	Features []string `json:"features" yaml:"features"`
	Popular  bool     `json:"popular" yaml:"popular"`
}

// Testimonial is a customer quote on the landing page.
type Testimonial struct {
	Name    string `json:"name" yaml:"name"`
	Title   string `json:"title" yaml:"title"`
	Company string `json:"company" yaml:"company"`
	Quote   string `json:"quote" yaml:"quote"`
	Avatar  string `json:"avatar" yaml:"avatar"`
}

// Benefit is a landing-page value proposition.
type Benefit struct {
	Icon        string `json:"icon" yaml:"icon"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Slide is one page of the investor pitch deck. Content is markdown.
type Slide struct {
	ID       int    `json:"id" yaml:"id" mapstructure:"id"`
	Title    string `json:"title" yaml:"title" mapstructure:"title"`
	Subtitle string `json:"subtitle" yaml:"subtitle" mapstructure:"subtitle"`
	Content  string `json:"content" yaml:"content" mapstructure:"content"`
	Visual   string `json:"visual" yaml:"visual" mapstructure:"visual"`
	Stats    []Stat `json:"stats,omitempty" yaml:"stats" mapstructure:"stats"`
}

// FeatureStatus is the delivery state of a roadmap item.
type FeatureStatus string

const (
	StatusCompleted  FeatureStatus = "completed"
	StatusInProgress FeatureStatus = "in-progress"
	StatusPlanned    FeatureStatus = "planned"
	StatusResearch   FeatureStatus = "research"
	StatusFuture     FeatureStatus = "future"
)

// RoadmapFeature is a deliverable inside a quarter.
type RoadmapFeature struct {
	Name        string        `json:"name" yaml:"name" mapstructure:"name"`
	Status      FeatureStatus `json:"status" yaml:"status" mapstructure:"status"`
	Description string        `json:"description" yaml:"description" mapstructure:"description"`
}

// Quarter is a roadmap milestone.
type Quarter struct {
	ID       string            `json:"id" yaml:"id" mapstructure:"id"`
	Title    string            `json:"title" yaml:"title" mapstructure:"title"`
	Status   FeatureStatus     `json:"status" yaml:"status" mapstructure:"status"`
	Progress int               `json:"progress" yaml:"progress" mapstructure:"progress"`
	Features []RoadmapFeature  `json:"features" yaml:"features" mapstructure:"features"`
	Metrics  map[string]string `json:"metrics" yaml:"metrics" mapstructure:"metrics"`
}

// Advantage is a "why us" section.
type Advantage struct {
	ID          int      `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Subtitle    string   `json:"subtitle" yaml:"subtitle"`
	Description string   `json:"description" yaml:"description"`
	Icon        string   `json:"icon" yaml:"icon"`
	Stats       []Stat   `json:"stats" yaml:"stats"`
	Features    []string `json:"features" yaml:"features"`
}

// Profile is the demo card identity shown in the tutorial.
type Profile struct {
	Name     string `json:"name" yaml:"name"`
	Title    string `json:"title" yaml:"title"`
	Company  string `json:"company" yaml:"company"`
	Email    string `json:"email" yaml:"email"`
	Phone    string `json:"phone" yaml:"phone"`
	Website  string `json:"website" yaml:"website"`
	Location string `json:"location" yaml:"location"`
}
