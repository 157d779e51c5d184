package config

import (
	"fmt"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
)

// Package is one purchasable voucher tier. The catalog changed across
// deployments, so it is configuration, not a hardcoded contract.
type Package struct {
	Label    string `koanf:"label" json:"label"`
	Value    int64  `koanf:"value" json:"value"`
	Price    string `koanf:"price" json:"price"`
	Duration string `koanf:"duration" json:"duration"`
	Color    string `koanf:"color" json:"color"`
	Speed    string `koanf:"speed" json:"speed,omitempty"`
}

const tierColor = "from-green-500 to-emerald-600"

func defaultCatalog() []Package {
	return []Package{
		{Label: "24 Hours", Value: 1000, Price: "UGX 1000", Duration: "Full Day", Color: tierColor},
		{Label: "7 Days", Value: 6000, Price: "UGX 6000", Duration: "Full Week", Color: tierColor},
		{Label: "12 Hours", Value: 500, Price: "UGX 500", Duration: "Half Day", Color: tierColor},
		{Label: "30 Days", Value: 25000, Price: "UGX 25000", Duration: "Full Month", Color: tierColor},
		{Label: "90 Days", Value: 70000, Price: "UGX 70000", Duration: "Full Quarter", Color: tierColor},
		{Label: "180 Days", Value: 120000, Price: "UGX 120000", Duration: "Full Half Year", Color: tierColor},
	}
}

// LoadCatalog returns the voucher catalog, replaced wholesale by the JSON
// file at Path when one is configured. File shape: {"packages": [...]}.
func (c *CatalogConfig) LoadCatalog() ([]Package, error) {
	if c.Path == "" {
		return defaultCatalog(), nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(c.Path), json.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load catalog file %s: %w", c.Path, err)
	}

	var packages []Package
	if err := k.Unmarshal("packages", &packages); err != nil {
		return nil, fmt.Errorf("could not unmarshal catalog: %w", err)
	}
	if len(packages) == 0 {
		return nil, fmt.Errorf("catalog file %s contains no packages", c.Path)
	}

	return packages, nil
}
