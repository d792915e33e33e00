// Package catalog loads the software catalog from a catalog-info manifest
// and serves it as JSON and as HTML entity pages.
package catalog

// Entity kinds the catalog recognizes. Other kinds load fine, these just
// get special treatment.
const (
	KindAPI = "API"

	// SpecTypeOpenAPI marks an API entity whose definition is an OpenAPI
	// document and is validated at load time.
	SpecTypeOpenAPI = "openapi"
)

// Entity is one catalog entry as declared in the manifest.
type Entity struct {
	APIVersion string   `yaml:"apiVersion" json:"apiVersion"`
	Kind       string   `yaml:"kind" json:"kind"`
	Metadata   Metadata `yaml:"metadata" json:"metadata"`
	Spec       Spec     `yaml:"spec" json:"spec"`
}

// Metadata identifies and describes an entity. Name is unique across the
// catalog.
type Metadata struct {
	Name        string   `yaml:"name" json:"name"`
	Title       string   `yaml:"title,omitempty" json:"title,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Spec holds the kind-specific fields. Definition carries the raw OpenAPI
// document for API entities.
type Spec struct {
	Type       string `yaml:"type,omitempty" json:"type,omitempty"`
	Lifecycle  string `yaml:"lifecycle,omitempty" json:"lifecycle,omitempty"`
	Owner      string `yaml:"owner,omitempty" json:"owner,omitempty"`
	System     string `yaml:"system,omitempty" json:"system,omitempty"`
	Definition string `yaml:"definition,omitempty" json:"definition,omitempty"`
}

// DisplayName returns the title when set, the name otherwise.
func (e *Entity) DisplayName() string {
	if e.Metadata.Title != "" {
		return e.Metadata.Title
	}
	return e.Metadata.Name
}
