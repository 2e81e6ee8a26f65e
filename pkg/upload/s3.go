package upload

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PutObjectAPI is the slice of the S3 client the transport needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Transport stores media directly in an S3 bucket. The object key doubles
// as the public id.
type S3Transport struct {
	client  PutObjectAPI
	bucket  string
	prefix  string
	region  string
	baseURL string
	newKey  func(File) string
}

// S3Option customises an S3Transport.
type S3Option func(*S3Transport)

// WithKeyPrefix places objects under prefix, e.g. "courses/media".
func WithKeyPrefix(prefix string) S3Option {
	return func(t *S3Transport) {
		t.prefix = strings.Trim(prefix, "/")
	}
}

// WithRegion is used to build virtual-hosted object URLs.
func WithRegion(region string) S3Option {
	return func(t *S3Transport) {
		t.region = region
	}
}

// WithPublicBaseURL builds object URLs from base (a CDN, for instance)
// instead of the bucket host.
func WithPublicBaseURL(base string) S3Option {
	return func(t *S3Transport) {
		t.baseURL = strings.TrimRight(base, "/")
	}
}

// WithKeyGenerator overrides the random object name.
func WithKeyGenerator(fn func(File) string) S3Option {
	return func(t *S3Transport) {
		if fn != nil {
			t.newKey = fn
		}
	}
}

// NewS3Transport uploads into bucket using client.
func NewS3Transport(client PutObjectAPI, bucket string, opts ...S3Option) *S3Transport {
	t := &S3Transport{
		client: client,
		bucket: bucket,
		newKey: randomKey,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Upload implements Transport.
func (t *S3Transport) Upload(ctx context.Context, file File, progress func(percent int)) (Result, error) {
	src, err := file.Open()
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	key := t.newKey(file)
	if t.prefix != "" {
		key = path.Join(t.prefix, key)
	}

	log.Debug().
		Str("bucket", t.bucket).
		Str("key", key).
		Int64("size", file.Size()).
		Msg("Uploading media to S3")

	_, err = t.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(t.bucket),
		Key:           aws.String(key),
		Body:          newProgressReader(src, file.Size(), progress),
		ContentLength: aws.Int64(file.Size()),
		ContentType:   aws.String(file.ContentType()),
	})
	if err != nil {
		return Result{}, fmt.Errorf("upload: put s3://%s/%s: %w", t.bucket, key, err)
	}

	return Result{URL: t.objectURL(key), PublicID: key}, nil
}

func (t *S3Transport) objectURL(key string) string {
	if t.baseURL != "" {
		return t.baseURL + "/" + key
	}
	if t.region != "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", t.bucket, t.region, key)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", t.bucket, key)
}

func randomKey(file File) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(file.Name()))
}
