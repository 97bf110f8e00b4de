// Package main sichert alle gespeicherten Sammlungen als gzip-JSON-Bundle in einen S3-Bucket
// und löscht ältere Backups über KEEP_BACKUPS hinaus.
package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"handscout/app"
	"handscout/config"
	"handscout/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

const backupPrefix = "handscout-backup-"

type BackupConfig struct {
	BackupBucket    string `envconfig:"BACKUP_S3_BUCKET" required:"true"`
	BackupEndpoint  string `envconfig:"BACKUP_S3_ENDPOINT" required:"true"`
	BackupAccessKey string `envconfig:"BACKUP_S3_ACCESS_KEY" required:"true"`
	BackupSecretKey string `envconfig:"BACKUP_S3_SECRET_KEY" required:"true"`
	BackupRegion    string `envconfig:"BACKUP_S3_REGION" required:"true"`
	KeepBackups     int    `envconfig:"KEEP_BACKUPS" default:"4"`
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()
	logging.Info("Starte Backup-Prozess...")

	var cfg BackupConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logging.Fatal("Fehler beim Laden der Backup-Konfiguration", zap.Error(err))
	}
	appCfg, err := config.Load()
	if err != nil {
		logging.Fatal("Fehler beim Laden der Konfiguration", zap.Error(err))
	}

	ctx := context.Background()
	store, err := app.NewStore(appCfg)
	if err != nil {
		logging.Fatal("Store konnte nicht erstellt werden", zap.Error(err))
	}

	// 1. Bundle aller Sammlungen erstellen
	bundle, domains, err := createBundle(ctx, store)
	if err != nil {
		logging.Fatal("Fehler beim Erstellen des Bundles", zap.Error(err))
	}

	// 2. S3-Client erstellen
	s3Client, err := createS3Client(ctx, cfg)
	if err != nil {
		logging.Fatal("Fehler beim Erstellen des S3-Clients", zap.Error(err))
	}

	// 3. Backup nach S3 hochladen
	fileName := backupName(time.Now())
	if err := uploadToS3(ctx, s3Client, cfg.BackupBucket, fileName, bundle); err != nil {
		logging.Fatal("Fehler beim Hochladen nach S3", zap.Error(err))
	}
	logging.Info("Backup erfolgreich hochgeladen",
		zap.String("bucket", cfg.BackupBucket),
		zap.String("key", fileName),
		zap.Strings("domains", domains))

	// 4. Alte Backups rotieren
	deleted, err := rotateBackups(ctx, s3Client, cfg.BackupBucket, cfg.KeepBackups, logging)
	if err != nil {
		logging.Fatal("Fehler bei der Rotation alter Backups", zap.Error(err))
	}
	logging.Info("Backup-Prozess erfolgreich abgeschlossen.", zap.Int("deleted_backups", deleted))
}

func backupName(now time.Time) string {
	return fmt.Sprintf("%s%s.json.gz", backupPrefix, now.UTC().Format("2006-01-02T15-04-05Z"))
}

// createBundle liest alle Domains und schreibt {"<domain>": [...]} gzip-komprimiert.
// Die Dokumente werden unverändert übernommen, müssen aber gültiges JSON sein.
func createBundle(ctx context.Context, store storage.Store) ([]byte, []string, error) {
	domains, err := store.Domains(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("domains auflisten: %w", err)
	}
	docs := make(map[string]json.RawMessage, len(domains))
	for _, d := range domains {
		data, err := store.Load(ctx, d)
		if err != nil {
			return nil, nil, fmt.Errorf("%s lesen: %w", d, err)
		}
		if !json.Valid(data) {
			return nil, nil, fmt.Errorf("%s ist kein gültiges JSON", d)
		}
		docs[d] = json.RawMessage(data)
	}
	payload, err := json.Marshal(docs)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	if _, err := gzipWriter.Write(payload); err != nil {
		return nil, nil, err
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), domains, nil
}

func createS3Client(ctx context.Context, cfg BackupConfig) (*s3.Client, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: cfg.BackupEndpoint,
		}, nil
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.BackupAccessKey, cfg.BackupSecretKey, "")),
		awsconfig.WithRegion(cfg.BackupRegion),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg), nil
}

func uploadToS3(ctx context.Context, client storage.ObjectAPI, bucket, key string, data []byte) error {
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(bucket),
		Key:             aws.String(key),
		Body:            bytes.NewReader(data),
		ContentType:     aws.String("application/json"),
		ContentEncoding: aws.String("gzip"),
	})
	return err
}

// rotateBackups behält die keep neuesten Backups. Die Reihenfolge ergibt sich aus dem
// Zeitstempel im Namen.
func rotateBackups(ctx context.Context, client storage.ObjectAPI, bucket string, keep int, logging *zap.Logger) (int, error) {
	output, err := client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(backupPrefix),
	})
	if err != nil {
		return 0, err
	}

	var keys []string
	for _, obj := range output.Contents {
		if k := aws.ToString(obj.Key); strings.HasPrefix(k, backupPrefix) {
			keys = append(keys, k)
		}
	}
	if len(keys) <= keep {
		logging.Info("Keine Rotation nötig", zap.Int("backups", len(keys)), zap.Int("keep", keep))
		return 0, nil
	}

	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	deleted := 0
	for _, key := range keys[keep:] {
		logging.Info("Lösche altes Backup", zap.String("key", key))
		_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			logging.Warn("Fehler beim Löschen", zap.String("key", key), zap.Error(err))
			continue
		}
		deleted++
	}
	return deleted, nil
}
