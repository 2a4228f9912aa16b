package classify

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var taxonomyYAML []byte

// Taxonomy is the fixed category catalogue used to build the categorization
// instructions.
type Taxonomy struct {
	Categories []TaxonomyEntry `yaml:"categories"`
}

// TaxonomyEntry describes one category to the model.
type TaxonomyEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// LoadTaxonomy parses the embedded taxonomy catalogue.
func LoadTaxonomy() (*Taxonomy, error) {
	var t Taxonomy
	if err := yaml.Unmarshal(taxonomyYAML, &t); err != nil {
		return nil, fmt.Errorf("failed to parse embedded taxonomy: %w", err)
	}
	if len(t.Categories) == 0 {
		return nil, fmt.Errorf("embedded taxonomy has no categories")
	}
	return &t, nil
}

// PromptList renders the catalogue as a bulleted list for system prompts.
func (t *Taxonomy) PromptList() string {
	var b strings.Builder
	for _, c := range t.Categories {
		fmt.Fprintf(&b, "- **%s**: %s\n", c.Name, c.Description)
	}
	return b.String()
}
