package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/lumenfest/lumen/internal/logging"
	"github.com/lumenfest/lumen/internal/server/chat"
	"github.com/lumenfest/lumen/internal/server/users"
)

// S3Options configures the optional snapshot mirror. Credentials follow the
// MinIO-style root user/password pair.
type S3Options struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	RootUser     string
	RootPassword string
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// MirrorStore wraps a Store and uploads every saved document to an S3 bucket
// as well. Uploads are best effort and run in the background: a failed or
// slow upload never fails or stalls the local save. Close drains in-flight
// uploads before closing the inner store.
type MirrorStore struct {
	Store
	client objectPutter
	bucket string
	logger logging.Logger
	wg     sync.WaitGroup
}

func NewMirrorStore(ctx context.Context, inner Store, opts S3Options, logger logging.Logger) (*MirrorStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.RootUser,
			opts.RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return &MirrorStore{Store: inner, client: client, bucket: opts.Bucket, logger: logger}, nil
}

func (m *MirrorStore) SaveUsers(ctx context.Context, snap *users.Snapshot) error {
	if err := m.Store.SaveUsers(ctx, snap); err != nil {
		return err
	}
	m.enqueue(ctx, usersFileName, snap)
	return nil
}

func (m *MirrorStore) SaveMessages(ctx context.Context, messages []chat.Message) error {
	if err := m.Store.SaveMessages(ctx, messages); err != nil {
		return err
	}
	m.enqueue(ctx, chatFileName, messages)
	return nil
}

// enqueue encodes synchronously, while the caller's snapshot copy is stable,
// and uploads in the background. The upload deliberately ignores the save's
// context: a shutdown flush should still reach the bucket.
func (m *MirrorStore) enqueue(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		m.logger.Error(ctx, "mirror encode failed", "key", key, "error", err)
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.upload(context.Background(), key, data)
	}()
}

func (m *MirrorStore) upload(ctx context.Context, key string, data []byte) {
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		m.logger.Error(ctx, "mirror upload failed", "key", key, "error", err)
	}
}

// Close waits for pending uploads, then closes the inner store.
func (m *MirrorStore) Close() error {
	m.wg.Wait()
	return m.Store.Close()
}
