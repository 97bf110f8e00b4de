package simulated

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source ist ein Eintrag der Quellenliste eines Scanners.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	// Offline simuliert einen Fehler beim Abruf dieses Eintrags.
	Offline bool `yaml:"offline"`
}

// Catalog enthält die festen Quellenlisten aller simulierten Scanner.
type Catalog struct {
	News        []Source `yaml:"news"`
	Vendors     []Source `yaml:"vendors"`
	Scholar     Source   `yaml:"scholar"`
	IEEE        Source   `yaml:"ieee"`
	SearchTerms []Source `yaml:"searchTerms"`
}

// DefaultCatalog liefert die eingebauten Quellen.
func DefaultCatalog() Catalog {
	return Catalog{
		News: []Source{
			{Name: "The Robot Report", URL: "https://www.therobotreport.com"},
			{Name: "IEEE Robotics", URL: "https://robotics.ieee.org"},
			{Name: "Robotics Business Review", URL: "https://www.roboticsbusinessreview.com"},
		},
		Vendors: []Source{
			{Name: "Shadow Robot Company", URL: "https://www.shadowrobot.com"},
			{Name: "Wonik Robotics", URL: "https://www.wonikrobotics.com"},
			{Name: "Barrett Technology", URL: "https://barrett.com"},
			{Name: "Schunk", URL: "https://schunk.com"},
			{Name: "Robotiq", URL: "https://robotiq.com"},
		},
		Scholar: Source{Name: "Google Scholar", URL: "https://scholar.google.com"},
		IEEE:    Source{Name: "IEEE Xplore", URL: "https://ieeexplore.ieee.org"},
		SearchTerms: []Source{
			{Name: "dexterous hand manipulation"},
			{Name: "robotic hand grasping"},
			{Name: "dexterous manipulation learning"},
			{Name: "multi-finger robot control"},
			{Name: "hand-object manipulation"},
		},
	}
}

// LoadCatalog liest einen Katalog aus einer YAML-Datei. Leere Abschnitte werden mit den
// eingebauten Quellen aufgefüllt. path == "" liefert DefaultCatalog.
func LoadCatalog(path string) (Catalog, error) {
	def := DefaultCatalog()
	if path == "" {
		return def, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("quellenkatalog %s: %w", path, err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("quellenkatalog %s ungültig: %w", path, err)
	}
	if len(c.News) == 0 {
		c.News = def.News
	}
	if len(c.Vendors) == 0 {
		c.Vendors = def.Vendors
	}
	if c.Scholar.Name == "" {
		c.Scholar = def.Scholar
	}
	if c.IEEE.Name == "" {
		c.IEEE = def.IEEE
	}
	if len(c.SearchTerms) == 0 {
		c.SearchTerms = def.SearchTerms
	}
	return c, nil
}
