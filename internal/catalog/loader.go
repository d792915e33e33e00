package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Load reads every entity from the multi-document YAML manifest at path.
// Each entity needs a kind and a metadata.name, names must be unique, and
// API entities with an openapi definition must carry a parseable document.
func Load(path string, logger *zap.Logger) ([]Entity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("failed to close catalog file", zap.Error(err))
		}
	}()

	var entities []Entity
	seen := make(map[string]bool)

	dec := yaml.NewDecoder(f)
	for {
		var e Entity
		if err := dec.Decode(&e); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("parsing catalog file %s: %w", path, err)
		}

		// empty documents between separators decode to the zero value
		if e.Kind == "" && e.Metadata.Name == "" {
			continue
		}
		if e.Kind == "" || e.Metadata.Name == "" {
			return nil, fmt.Errorf("entity in %s is missing kind or metadata.name", path)
		}
		if seen[e.Metadata.Name] {
			return nil, fmt.Errorf("duplicate entity name %q in %s", e.Metadata.Name, path)
		}
		seen[e.Metadata.Name] = true

		if e.Kind == KindAPI && e.Spec.Type == SpecTypeOpenAPI {
			if err := validateOpenAPIDefinition(&e, logger); err != nil {
				return nil, err
			}
		}

		entities = append(entities, e)
	}

	return entities, nil
}

func validateOpenAPIDefinition(e *Entity, logger *zap.Logger) error {
	if e.Spec.Definition == "" {
		return fmt.Errorf("API entity %q has no definition", e.Metadata.Name)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData([]byte(e.Spec.Definition))
	if err != nil {
		return fmt.Errorf("invalid OpenAPI definition for entity %q: %w", e.Metadata.Name, err)
	}

	operations := 0
	for _, item := range doc.Paths.Map() {
		operations += len(item.Operations())
	}
	logger.Info("parsed OpenAPI definition",
		zap.String("entity", e.Metadata.Name),
		zap.Int("operations", operations),
	)
	return nil
}
