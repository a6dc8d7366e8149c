package loam

import "github.com/namecardai/namecard/pkg/domain"

// DocMetadata is the frontmatter of a content document.
// A document with `slide` set overrides or adds a pitch slide (its markdown
// body becomes the slide content); one with `quarter` set overrides or adds
// a roadmap milestone. Other documents are ignored.
type DocMetadata struct {
	Slide   int    `json:"slide" mapstructure:"slide"`
	Quarter string `json:"quarter" mapstructure:"quarter"`

	Title    string        `json:"title" mapstructure:"title"`
	Subtitle string        `json:"subtitle" mapstructure:"subtitle"`
	Visual   string        `json:"visual" mapstructure:"visual"`
	Stats    []domain.Stat `json:"stats" mapstructure:"stats"`

	Status   string                  `json:"status" mapstructure:"status"`
	Progress int                     `json:"progress" mapstructure:"progress"`
	Features []domain.RoadmapFeature `json:"features" mapstructure:"features"`
	Metrics  map[string]string       `json:"metrics" mapstructure:"metrics"`
}

func (m DocMetadata) slide(body string) domain.Slide {
	return domain.Slide{
		ID:       m.Slide,
		Title:    m.Title,
		Subtitle: m.Subtitle,
		Content:  body,
		Visual:   m.Visual,
		Stats:    m.Stats,
	}
}

func (m DocMetadata) quarter() domain.Quarter {
	return domain.Quarter{
		ID:       m.Quarter,
		Title:    m.Title,
		Status:   domain.FeatureStatus(m.Status),
		Progress: m.Progress,
		Features: m.Features,
		Metrics:  m.Metrics,
	}
}
