package catalog

import (
	"github.com/kingasieminiak/backstage/internal/config"
	"go.uber.org/zap"
)

// Service is the in-memory entity registry. The catalog is loaded once at
// startup and never mutated afterwards, so lookups need no locking.
type Service struct {
	entities []Entity
	byName   map[string]*Entity
}

// NewService loads the catalog manifest named in the configuration. A
// missing or invalid manifest fails startup.
func NewService(cfg *config.CatalogConfig, logger *zap.Logger) (*Service, error) {
	entities, err := Load(cfg.File, logger)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*Entity, len(entities))
	for i := range entities {
		byName[entities[i].Metadata.Name] = &entities[i]
	}

	logger.Info("catalog loaded",
		zap.String("file", cfg.File),
		zap.Int("entities", len(entities)),
	)
	return &Service{entities: entities, byName: byName}, nil
}

// List returns all entities in manifest order.
func (s *Service) List() []Entity {
	out := make([]Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// ListByKind returns the entities of one kind, or all of them when kind is
// empty.
func (s *Service) ListByKind(kind string) []Entity {
	if kind == "" {
		return s.List()
	}
	var out []Entity
	for _, e := range s.entities {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Get looks an entity up by its metadata.name.
func (s *Service) Get(name string) (*Entity, bool) {
	e, ok := s.byName[name]
	return e, ok
}
