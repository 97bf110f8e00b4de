package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"handscout/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memBucket struct {
	objects   map[string][]byte
	failKey   string
	putHeader string
}

func (m *memBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := m.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *memBucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.objects[aws.ToString(in.Key)] = data
	m.putHeader = aws.ToString(in.ContentEncoding)
	return &s3.PutObjectOutput{}, nil
}

func (m *memBucket) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func (m *memBucket) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	key := aws.ToString(in.Key)
	if key == m.failKey {
		return nil, errors.New("access denied")
	}
	delete(m.objects, key)
	return &s3.DeleteObjectOutput{}, nil
}

var _ storage.ObjectAPI = (*memBucket)(nil)

func gunzip(t *testing.T, data []byte) map[string]json.RawMessage {
	t.Helper()
	r, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	raw, err := io.ReadAll(r)
	require.NoError(t, err)
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestCreateBundle(t *testing.T) {
	ctx := context.Background()
	store := &storage.FileStore{Dir: t.TempDir()}
	require.NoError(t, store.Save(ctx, "hardware", []byte(`[{"id":"allegro-hand","name":"Allegro Hand"}]`)))
	require.NoError(t, store.Ensure(ctx, "papers"))

	bundle, domains, err := createBundle(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, []string{"hardware", "papers"}, domains)

	docs := gunzip(t, bundle)
	require.Len(t, docs, 2)
	assert.JSONEq(t, `[{"id":"allegro-hand","name":"Allegro Hand"}]`, string(docs["hardware"]))
	assert.JSONEq(t, `[]`, string(docs["papers"]))
}

func TestCreateBundle_RejectsCorruptDocument(t *testing.T) {
	ctx := context.Background()
	store := &storage.FileStore{Dir: t.TempDir()}
	require.NoError(t, store.Save(ctx, "hardware", []byte(`{not json`)))

	_, _, err := createBundle(ctx, store)
	assert.ErrorContains(t, err, "hardware")
}

func TestUploadAndRotate(t *testing.T) {
	ctx := context.Background()
	bucket := &memBucket{objects: map[string][]byte{
		"handscout-backup-2025-01-01T00-00-00Z.json.gz": nil,
		"handscout-backup-2025-01-02T00-00-00Z.json.gz": nil,
		"handscout-backup-2025-01-03T00-00-00Z.json.gz": nil,
		"unrelated.txt": nil,
	}}

	key := backupName(time.Date(2025, 1, 4, 12, 30, 0, 0, time.UTC))
	assert.Equal(t, "handscout-backup-2025-01-04T12-30-00Z.json.gz", key)
	require.NoError(t, uploadToS3(ctx, bucket, "b", key, []byte("payload")))
	assert.Equal(t, "gzip", bucket.putHeader)

	deleted, err := rotateBackups(ctx, bucket, "b", 2, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	var left []string
	for k := range bucket.objects {
		left = append(left, k)
	}
	sort.Strings(left)
	assert.Equal(t, []string{
		"handscout-backup-2025-01-03T00-00-00Z.json.gz",
		"handscout-backup-2025-01-04T12-30-00Z.json.gz",
		"unrelated.txt",
	}, left)
}

func TestRotateBackups_NothingToDo(t *testing.T) {
	bucket := &memBucket{objects: map[string][]byte{"handscout-backup-2025-01-01T00-00-00Z.json.gz": nil}}
	deleted, err := rotateBackups(context.Background(), bucket, "b", 4, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.Len(t, bucket.objects, 1)
}

func TestRotateBackups_DeleteFailureIsSkipped(t *testing.T) {
	bucket := &memBucket{
		objects: map[string][]byte{
			"handscout-backup-2025-01-01T00-00-00Z.json.gz": nil,
			"handscout-backup-2025-01-02T00-00-00Z.json.gz": nil,
			"handscout-backup-2025-01-03T00-00-00Z.json.gz": nil,
		},
		failKey: "handscout-backup-2025-01-01T00-00-00Z.json.gz",
	}
	deleted, err := rotateBackups(context.Background(), bucket, "b", 1, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Contains(t, bucket.objects, "handscout-backup-2025-01-01T00-00-00Z.json.gz")
}
