// Package skill defines the four skill categories and their scoring
// parameters. The category slugs and display names are the external
// contract surface; downstream UIs key off the literal strings.
package skill

// Category identifies one of the four skill domains a task belongs to.
type Category string

// Category slugs. These are the only valid values; anything else is a
// configuration error surfaced to the caller.
const (
	FullstackDev  Category = "fullstack-dev"
	CloudDevOps   Category = "cloud-devops"
	DataAnalytics Category = "data-analytics"
	AIML          Category = "ai-ml"
)

// Categories returns all categories in their canonical order.
func Categories() []Category {
	return []Category{FullstackDev, CloudDevOps, DataAnalytics, AIML}
}

// displayNames maps category slugs to their human-readable names.
var displayNames = map[Category]string{
	FullstackDev:  "Full-Stack Software Development",
	CloudDevOps:   "Cloud Computing & DevOps",
	DataAnalytics: "Data Science & Analytics",
	AIML:          "AI / Machine Learning",
}

// DisplayName returns the human-readable name for a category, or the raw
// slug if the category is unknown.
func (c Category) DisplayName() string {
	if name, ok := displayNames[c]; ok {
		return name
	}
	return string(c)
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	_, ok := displayNames[c]
	return ok
}

// Config holds the scoring parameters for a single category.
type Config struct {
	BaseMultiplier  float64 `json:"base_multiplier"`
	BonusMultiplier float64 `json:"bonus_multiplier"`
	Cap             int     `json:"cap"`
	OverCapBoost    float64 `json:"over_cap_boost"`
	Description     string  `json:"description"`
}

// Table is an immutable per-category parameter set, injected into the
// scoring engine rather than read from package state so tests can
// substitute alternate tables.
type Table map[Category]Config

// DefaultTable returns the production parameter table. All four categories
// carry equal weighting; caps and boosts match the published formula.
func DefaultTable() Table {
	return Table{
		FullstackDev: {
			BaseMultiplier:  1.0,
			BonusMultiplier: 1.0,
			Cap:             1000,
			OverCapBoost:    1.5,
			Description:     "Web applications end to end: frontend, backend, APIs and databases",
		},
		CloudDevOps: {
			BaseMultiplier:  1.0,
			BonusMultiplier: 1.0,
			Cap:             1000,
			OverCapBoost:    1.5,
			Description:     "Infrastructure, CI/CD pipelines, containers and cloud platforms",
		},
		DataAnalytics: {
			BaseMultiplier:  1.0,
			BonusMultiplier: 1.0,
			Cap:             1000,
			OverCapBoost:    1.5,
			Description:     "Data pipelines, analysis, visualization and reporting",
		},
		AIML: {
			BaseMultiplier:  1.0,
			BonusMultiplier: 1.0,
			Cap:             1000,
			OverCapBoost:    1.5,
			Description:     "Model training, evaluation and ML-powered features",
		},
	}
}

// Lookup returns the config for a category.
// The second return is false for unknown categories.
func (t Table) Lookup(c Category) (Config, bool) {
	cfg, ok := t[c]
	return cfg, ok
}

// Weights returns the per-category weight slice in canonical category
// order. Weights derive from BonusMultiplier; the default table is
// uniform across categories.
func (t Table) Weights() []float64 {
	cats := Categories()
	weights := make([]float64, len(cats))
	for i, c := range cats {
		if cfg, ok := t[c]; ok {
			weights[i] = cfg.BonusMultiplier
		}
	}
	return weights
}

// Index returns the canonical position of a category, or -1 if unknown.
func Index(c Category) int {
	for i, cat := range Categories() {
		if cat == c {
			return i
		}
	}
	return -1
}
