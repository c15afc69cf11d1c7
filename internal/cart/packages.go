package cart

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/joao-fontenele/menuflow/internal/domain"
)

var ErrUnknownPackage = errors.New("unknown package")

const defaultSides = "Also includes coconut sambal, papadam, and 700ml container."

// Packages is the set of bundles offered on the menu, in display order.
type Packages []PackageSpec

func DefaultPackages() Packages {
	return Packages{
		{
			ID:                "standard",
			Name:              "Standard Package (1 Non-Veg, 3 Veg, Sides)",
			LocalName:         "සම්මත පැකේජය",
			Price:             decimal.NewFromInt(50),
			PrimaryCount:      1,
			SecondaryCount:    3,
			PrimaryCategory:   domain.CategoryNonVeg,
			SecondaryCategory: domain.CategoryVeg,
			Sides:             defaultSides,
		},
		{
			ID:                "premium",
			Name:              "Premium Package (2 Non-Veg, 2 Veg, Sides)",
			LocalName:         "ප්‍රීමියම් පැකේජය",
			Price:             decimal.NewFromInt(55),
			PrimaryCount:      2,
			SecondaryCount:    2,
			PrimaryCategory:   domain.CategoryNonVeg,
			SecondaryCategory: domain.CategoryVeg,
			Sides:             defaultSides,
		},
	}
}

func (p Packages) Get(id string) (PackageSpec, error) {
	for _, spec := range p {
		if spec.ID == id {
			return spec, nil
		}
	}
	return PackageSpec{}, fmt.Errorf("%w: %s", ErrUnknownPackage, id)
}

type packageFile struct {
	Packages []struct {
		ID                string `yaml:"id"`
		Name              string `yaml:"name"`
		LocalName         string `yaml:"local_name"`
		Price             string `yaml:"price"`
		PrimaryCount      int    `yaml:"primary_count"`
		SecondaryCount    int    `yaml:"secondary_count"`
		PrimaryCategory   string `yaml:"primary_category"`
		SecondaryCategory string `yaml:"secondary_category"`
		Sides             string `yaml:"sides"`
	} `yaml:"packages"`
}

// LoadPackages reads package specs from a YAML file. Categories default to
// non-veg for the primary bucket and veg for the secondary one.
func LoadPackages(path string) (Packages, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read packages file: %w", err)
	}
	return ParsePackages(data)
}

func ParsePackages(data []byte) (Packages, error) {
	var file packageFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse packages: %w", err)
	}
	if len(file.Packages) == 0 {
		return nil, errors.New("parse packages: no packages defined")
	}

	seen := make(map[string]bool)
	out := make(Packages, 0, len(file.Packages))
	for _, raw := range file.Packages {
		if raw.ID == "" {
			return nil, errors.New("parse packages: package without id")
		}
		if seen[raw.ID] {
			return nil, fmt.Errorf("parse packages: duplicate package %q", raw.ID)
		}
		seen[raw.ID] = true

		price, err := decimal.NewFromString(raw.Price)
		if err != nil {
			return nil, fmt.Errorf("parse packages: package %q price: %w", raw.ID, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("parse packages: package %q has a negative price", raw.ID)
		}
		if raw.PrimaryCount < 0 || raw.SecondaryCount < 0 || raw.PrimaryCount+raw.SecondaryCount == 0 {
			return nil, fmt.Errorf("parse packages: package %q needs positive dish counts", raw.ID)
		}

		spec := PackageSpec{
			ID:                raw.ID,
			Name:              raw.Name,
			LocalName:         raw.LocalName,
			Price:             price,
			PrimaryCount:      raw.PrimaryCount,
			SecondaryCount:    raw.SecondaryCount,
			PrimaryCategory:   domain.Category(raw.PrimaryCategory),
			SecondaryCategory: domain.Category(raw.SecondaryCategory),
			Sides:             raw.Sides,
		}
		if spec.PrimaryCategory == "" {
			spec.PrimaryCategory = domain.CategoryNonVeg
		}
		if spec.SecondaryCategory == "" {
			spec.SecondaryCategory = domain.CategoryVeg
		}
		if !spec.PrimaryCategory.Valid() || !spec.SecondaryCategory.Valid() {
			return nil, fmt.Errorf("parse packages: package %q has an unknown category", raw.ID)
		}
		if spec.Name == "" {
			spec.Name = raw.ID
		}
		out = append(out, spec)
	}
	return out, nil
}
