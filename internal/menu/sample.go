package menu

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/joao-fontenele/menuflow/internal/domain"
)

//go:embed sample_catalog.json
var sampleCatalog []byte

// SampleCatalog returns the bundled demo menu. Each call returns a fresh copy.
func SampleCatalog() (domain.Catalog, error) {
	var catalog domain.Catalog
	if err := json.Unmarshal(sampleCatalog, &catalog); err != nil {
		return nil, fmt.Errorf("decode sample catalog: %w", err)
	}
	return catalog, nil
}
