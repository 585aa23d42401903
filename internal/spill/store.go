package spill

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"fullbleed/internal/canvas"
)

// Backend persists and retrieves spilled document bytes by key. LocalBackend
// and ObjectBackend are the two implementations; a render job picks one at
// startup based on config and never branches on it again.
type Backend interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// LocalBackend spills to a directory on disk. It is the default backend and
// the one used by short-lived single-process jobs.
type LocalBackend struct {
	dir string
}

// NewLocalBackend creates dir (and any missing parents) and returns a
// Backend rooted there.
func NewLocalBackend(dir string) (*LocalBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("spill: create dir: %w", err)
	}
	return &LocalBackend{dir: dir}, nil
}

func (b *LocalBackend) path(key string) string {
	return filepath.Join(b.dir, key)
}

func (b *LocalBackend) Put(_ context.Context, key string, data []byte) error {
	return os.WriteFile(b.path(key), data, 0o644)
}

func (b *LocalBackend) Get(_ context.Context, key string) ([]byte, error) {
	return os.ReadFile(b.path(key))
}

func (b *LocalBackend) Delete(_ context.Context, key string) error {
	err := os.Remove(b.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// ObjectBackendConfig configures an S3-compatible object store backend.
type ObjectBackendConfig struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	BucketName   string
	UseSSL       bool
	CreateBucket bool
}

// ObjectBackend spills to an S3-compatible bucket via minio-go, for
// multi-worker deployments where spill files must outlive a single process.
type ObjectBackend struct {
	client *minio.Client
	bucket string
}

// NewObjectBackend dials the configured endpoint and optionally ensures the
// target bucket exists.
func NewObjectBackend(ctx context.Context, cfg ObjectBackendConfig) (*ObjectBackend, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("spill: create object client: %w", err)
	}
	ob := &ObjectBackend{client: client, bucket: cfg.BucketName}
	if cfg.CreateBucket {
		exists, err := client.BucketExists(ctx, cfg.BucketName)
		if err != nil {
			return nil, fmt.Errorf("spill: check bucket: %w", err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("spill: create bucket: %w", err)
			}
		}
	}
	return ob, nil
}

func (b *ObjectBackend) Put(ctx context.Context, key string, data []byte) error {
	_, err := b.client.PutObject(ctx, b.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	return err
}

func (b *ObjectBackend) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

func (b *ObjectBackend) Delete(ctx context.Context, key string) error {
	return b.client.RemoveObject(ctx, b.bucket, key, minio.RemoveObjectOptions{})
}

// Store spills canvas.Document values to a Backend and tracks aggregate
// file-count and byte metrics across the life of a render job.
type Store struct {
	backend Backend
	files   atomic.Uint64
	bytes   atomic.Uint64
}

// NewStore wraps backend with spill encode/decode and metrics tracking.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Spill encodes doc and writes it to the backend under a fresh key,
// returning that key for a later Load.
func (s *Store) Spill(ctx context.Context, doc canvas.Document) (string, error) {
	var buf bytes.Buffer
	if err := WriteDocument(&buf, doc); err != nil {
		return "", err
	}
	key := fmt.Sprintf("fullbleed-spill-%s.bin", uuid.NewString())
	if err := s.backend.Put(ctx, key, buf.Bytes()); err != nil {
		return "", err
	}
	s.files.Add(1)
	s.bytes.Add(uint64(buf.Len()))
	return key, nil
}

// Load reads and decodes the document stored under key, then deletes it:
// a spilled document is consumed exactly once.
func (s *Store) Load(ctx context.Context, key string) (canvas.Document, error) {
	data, err := s.backend.Get(ctx, key)
	if err != nil {
		return canvas.Document{}, err
	}
	doc, err := ReadDocument(bytes.NewReader(data))
	if err != nil {
		return canvas.Document{}, err
	}
	if err := s.backend.Delete(ctx, key); err != nil {
		return canvas.Document{}, err
	}
	return doc, nil
}

// Metrics returns the cumulative (files, bytes) spilled through this store.
func (s *Store) Metrics() (files, bytes uint64) {
	return s.files.Load(), s.bytes.Load()
}
