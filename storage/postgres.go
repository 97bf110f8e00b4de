package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"handscout/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// CollectionSnapshot ist eine Zeile pro Domain mit dem vollständigen Dokument.
type CollectionSnapshot struct {
	Domain    string    `gorm:"primaryKey"`
	Document  string    `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// PostgresStore speichert die Snapshots in der Tabelle collection_snapshots.
type PostgresStore struct {
	DB *gorm.DB
}

// OpenPostgres verbindet sich mit der Datenbank aus der Konfiguration.
func OpenPostgres(cfg *config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// NewPostgresStore migriert die Tabelle und erstellt den Store.
func NewPostgresStore(db *gorm.DB) (*PostgresStore, error) {
	if err := db.AutoMigrate(&CollectionSnapshot{}); err != nil {
		return nil, fmt.Errorf("auto-migration collection_snapshots: %w", err)
	}
	return &PostgresStore{DB: db}, nil
}

// Load liest das Dokument der Domain.
func (s *PostgresStore) Load(ctx context.Context, domain string) ([]byte, error) {
	if err := checkDomain(domain); err != nil {
		return nil, err
	}
	var snap CollectionSnapshot
	err := s.DB.WithContext(ctx).First(&snap, "domain = ?", domain).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(snap.Document), nil
}

// Save ersetzt das Dokument in einem einzigen Upsert.
func (s *PostgresStore) Save(ctx context.Context, domain string, data []byte) error {
	if err := checkDomain(domain); err != nil {
		return err
	}
	snap := CollectionSnapshot{Domain: domain, Document: string(data), UpdatedAt: time.Now().UTC()}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "domain"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
	}).Create(&snap).Error
}

// Ensure legt eine leere Sammlung an, ohne eine bestehende zu überschreiben.
func (s *PostgresStore) Ensure(ctx context.Context, domain string) error {
	if err := checkDomain(domain); err != nil {
		return err
	}
	snap := CollectionSnapshot{Domain: domain, Document: string(emptyDocument), UpdatedAt: time.Now().UTC()}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&snap).Error
}

// Domains listet alle gespeicherten Domains.
func (s *PostgresStore) Domains(ctx context.Context) ([]string, error) {
	var domains []string
	err := s.DB.WithContext(ctx).Model(&CollectionSnapshot{}).Order("domain").Pluck("domain", &domains).Error
	return domains, err
}
