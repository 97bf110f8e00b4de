package simulated

import (
	"context"
	"encoding/json"
	"strings"

	"handscout/models"
	"handscout/providers"

	"go.uber.org/zap"
)

var (
	_ providers.Provider[models.Hardware] = (*NewsScanner)(nil)
	_ providers.Provider[models.Hardware] = (*VendorScanner)(nil)
	_ providers.Provider[models.Hardware] = (*ScholarScanner)(nil)
)

// NewsScanner simuliert Robotik-Nachrichtenseiten, die neue Hände ankündigen.
type NewsScanner struct{ scanner }

// NewNewsScanner erstellt den News-Scanner.
func NewNewsScanner(dice *Dice, catalog Catalog, logger *zap.Logger) *NewsScanner {
	return &NewsScanner{newScanner(dice, catalog, logger)}
}

// Name gibt den Namen des Providers zurück.
func (s *NewsScanner) Name() string { return "news" }

// Discover meldet pro Seite mit Wahrscheinlichkeit 0.3 eine Ankündigung.
func (s *NewsScanner) Discover(ctx context.Context, query string) ([]models.Hardware, error) {
	log := s.logger.With(zap.String("provider", s.Name()), zap.String("query", query))
	return scanEach(ctx, log, s.catalog.News, func(site Source) ([]models.Hardware, error) {
		if err := visit(site); err != nil {
			return nil, err
		}
		log.Debug("Durchsuche Nachrichtenseite", zap.String("site", site.URL))
		if !s.dice.Chance(0.3) {
			return nil, nil
		}
		found := s.now()
		return []models.Hardware{{
			Name:        "New Dexterous Hand Technology Announced (" + site.Name + ")",
			Description: models.Ptr("Advanced robotic hand with enhanced capabilities"),
			Source:      models.Ptr(site.URL),
			URL:         models.Ptr(strings.TrimSuffix(site.URL, "/") + "/dexterous-hand-news"),
			FoundAt:     &found,
		}}, nil
	})
}

// VendorScanner simuliert Produktseiten bekannter Hersteller.
type VendorScanner struct{ scanner }

// NewVendorScanner erstellt den Hersteller-Scanner.
func NewVendorScanner(dice *Dice, catalog Catalog, logger *zap.Logger) *VendorScanner {
	return &VendorScanner{newScanner(dice, catalog, logger)}
}

// Name gibt den Namen des Providers zurück.
func (s *VendorScanner) Name() string { return "vendor" }

// Discover meldet pro Hersteller mit Wahrscheinlichkeit 0.2 ein neues Produkt mit zufälligen Daten.
func (s *VendorScanner) Discover(ctx context.Context, query string) ([]models.Hardware, error) {
	log := s.logger.With(zap.String("provider", s.Name()), zap.String("query", query))
	return scanEach(ctx, log, s.catalog.Vendors, func(vendor Source) ([]models.Hardware, error) {
		if err := visit(vendor); err != nil {
			return nil, err
		}
		log.Debug("Prüfe Hersteller auf neue Produkte", zap.String("manufacturer", vendor.Name))
		if !s.dice.Chance(0.2) {
			return nil, nil
		}
		found := s.now()
		return []models.Hardware{{
			Name:         vendor.Name + " Enhanced Hand",
			Manufacturer: models.Ptr(vendor.Name),
			Fingers:      models.Ptr(s.dice.Between(4, 5)),
			DOFs:         models.Ptr(s.dice.Between(12, 23)),
			ActuatedDOFs: models.Ptr(s.dice.Between(8, 15)),
			Price:        models.Ptr(float64(s.dice.Between(20000, 99999))),
			Source:       models.Ptr(vendor.URL),
			FoundAt:      &found,
		}}, nil
	})
}

// ScholarScanner simuliert eine Literatursuche nach Forschungshänden.
type ScholarScanner struct{ scanner }

// NewScholarScanner erstellt den Scholar-Scanner.
func NewScholarScanner(dice *Dice, catalog Catalog, logger *zap.Logger) *ScholarScanner {
	return &ScholarScanner{newScanner(dice, catalog, logger)}
}

// Name gibt den Namen des Providers zurück.
func (s *ScholarScanner) Name() string { return "scholar" }

// Discover meldet mit Wahrscheinlichkeit 0.4 ein Forschungsdesign. Autoren und Features
// landen als Zusatzfelder im Datensatz.
func (s *ScholarScanner) Discover(ctx context.Context, query string) ([]models.Hardware, error) {
	log := s.logger.With(zap.String("provider", s.Name()), zap.String("query", query))
	return scanEach(ctx, log, []Source{s.catalog.Scholar}, func(src Source) ([]models.Hardware, error) {
		if err := visit(src); err != nil {
			return nil, err
		}
		if !s.dice.Chance(0.4) {
			return nil, nil
		}
		found := s.now()
		return []models.Hardware{{
			Name:         "Novel Dexterous Manipulator Design",
			Fingers:      models.Ptr(5),
			DOFs:         models.Ptr(20),
			ActuatedDOFs: models.Ptr(15),
			Description:  models.Ptr("This paper presents a new dexterous hand design with improved capabilities."),
			Source:       models.Ptr(src.URL),
			FoundAt:      &found,
			Extra: models.Extra{
				"type":     json.RawMessage(`"research_hardware"`),
				"authors":  json.RawMessage(`["Researcher A","Researcher B"]`),
				"features": json.RawMessage(`["force feedback","tactile sensing"]`),
			},
		}}, nil
	})
}
