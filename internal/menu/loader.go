package menu

import (
	"context"
	"log/slog"

	"github.com/joao-fontenele/menuflow/internal/domain"
)

type CatalogSource interface {
	List(ctx context.Context) (domain.Catalog, error)
}

// Loader reads the live catalog and falls back to the sample catalog when
// the store is unreachable or still empty.
type Loader struct {
	source CatalogSource
	logger *slog.Logger
}

func NewLoader(source CatalogSource, logger *slog.Logger) *Loader {
	return &Loader{source: source, logger: logger}
}

// Load returns the catalog and whether it is the demo sample.
func (l *Loader) Load(ctx context.Context) (domain.Catalog, bool, error) {
	if l.source != nil {
		catalog, err := l.source.List(ctx)
		switch {
		case err != nil:
			l.logger.Warn("menu store unavailable, serving sample catalog", "error", err)
		case len(catalog) == 0:
			l.logger.Info("menu store is empty, serving sample catalog")
		default:
			return catalog, false, nil
		}
	}

	catalog, err := SampleCatalog()
	if err != nil {
		return nil, false, err
	}
	return catalog, true, nil
}
