package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"handscout/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// NewS3Client erstellt einen S3-Client für einen S3-kompatiblen Endpunkt (z.B. Strato HiDrive, MinIO).
func NewS3Client(cfg *config.Config) (*s3.Client, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               cfg.S3URL,
				SigningRegion:     cfg.S3Region,
				HostnameImmutable: true,
			}, nil
		},
	)
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3Key, cfg.S3Secret, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg), nil
}

// ObjectAPI ist der Teil von *s3.Client, den S3Store und das Backup nutzen.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

var _ ObjectAPI = (*s3.Client)(nil)

// S3Store legt jede Domain als Objekt <Prefix>/<domain>.json ab. PutObject ersetzt ein Objekt
// für Leser atomar.
type S3Store struct {
	Client ObjectAPI
	Bucket string
	Prefix string
}

// NewS3Store erstellt einen S3Store.
func NewS3Store(client ObjectAPI, bucket, prefix string) *S3Store {
	return &S3Store{Client: client, Bucket: bucket, Prefix: strings.Trim(prefix, "/")}
}

func (s *S3Store) key(domain string) string {
	return path.Join(s.Prefix, domain+".json")
}

// isNotFound erkennt fehlende Objekte. Manche S3-kompatible Anbieter melden nur den Code.
func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

// Load liest das Objekt der Domain.
func (s *S3Store) Load(ctx context.Context, domain string) ([]byte, error) {
	if err := checkDomain(domain); err != nil {
		return nil, err
	}
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.key(domain)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("s3 get %s: %w", s.key(domain), err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// Save lädt das Dokument hoch.
func (s *S3Store) Save(ctx context.Context, domain string, data []byte) error {
	if err := checkDomain(domain); err != nil {
		return err
	}
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(s.key(domain)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", s.key(domain), err)
	}
	return nil
}

// Ensure legt ein leeres Array an, falls das Objekt fehlt.
func (s *S3Store) Ensure(ctx context.Context, domain string) error {
	if _, err := s.Load(ctx, domain); !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.Save(ctx, domain, emptyDocument)
}

// Domains listet alle Objekte unter dem Prefix.
func (s *S3Store) Domains(ctx context.Context) ([]string, error) {
	prefix := ""
	if s.Prefix != "" {
		prefix = s.Prefix + "/"
	}
	var domains []string
	var token *string
	for {
		out, err := s.Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.Bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 list %s: %w", prefix, err)
		}
		for _, obj := range out.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if !strings.HasSuffix(name, ".json") {
				continue
			}
			if domain := strings.TrimSuffix(name, ".json"); checkDomain(domain) == nil {
				domains = append(domains, domain)
			}
		}
		if !aws.ToBool(out.IsTruncated) {
			break
		}
		token = out.NextContinuationToken
	}
	sort.Strings(domains)
	return domains, nil
}
