// Package archive keeps a copy of every posted card in S3.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/abhisek/chebot/internal/content"
)

// Config selects the bucket. Region and Profile fall back to the standard
// AWS configuration chain when empty.
type Config struct {
	Bucket       string
	Prefix       string
	Region       string
	Profile      string
	UsePathStyle bool
}

// Enabled reports whether a bucket is configured.
func (c Config) Enabled() bool {
	return c.Bucket != ""
}

// Entry is one posted card.
type Entry struct {
	Kind  content.Kind
	Date  string // ISO date in the schedule zone
	RunID string
	PNG   []byte
}

// Archiver stores posted cards. It returns the location it wrote to.
type Archiver interface {
	Archive(ctx context.Context, e Entry) (string, error)
}

// Nop discards cards; used when no bucket is configured.
type Nop struct{}

func (Nop) Archive(context.Context, Entry) (string, error) { return "", nil }

// putObjectAPI is the slice of the S3 client we use.
type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 uploads cards to a bucket.
type S3 struct {
	client putObjectAPI
	bucket string
	prefix string
}

// NewS3 creates an S3 archiver using the default AWS configuration chain,
// with optional overrides from cfg.
func NewS3(ctx context.Context, cfg Config) (*S3, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("archive bucket is not configured")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	c := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &S3{client: c, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Archive uploads the card and returns its s3:// URI.
func (a *S3) Archive(ctx context.Context, e Entry) (string, error) {
	key := Key(a.prefix, e)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(a.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(e.PNG),
		ContentType:  aws.String("image/png"),
		CacheControl: aws.String("public, max-age=86400"),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", a.bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}

// Key builds the object key: {prefix}cards/{date}/{kind}-{runID}.png
func Key(prefix string, e Entry) string {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return fmt.Sprintf("%scards/%s/%s-%s.png", prefix, e.Date, e.Kind, e.RunID)
}
