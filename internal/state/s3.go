package state

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"gopkg.in/yaml.v3"
)

// S3Options configures a remote state bucket. Endpoint and path style make
// the store work against any S3-compatible service, not just AWS.
type S3Options struct {
	Endpoint     string
	Region       string
	Bucket       string
	Key          string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// S3Store keeps the document as a single object in a bucket.
type S3Store struct {
	s3     *s3.Client
	bucket string
	key    string
}

// NewS3Store builds a store from explicit credentials and endpoint.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("state bucket is required")
	}
	if opts.Key == "" {
		opts.Key = "k3strap/state.yaml"
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")),
		config.WithRegion(opts.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	return &S3Store{s3: client, bucket: opts.Bucket, key: opts.Key}, nil
}

// Load fetches the document, returning a fresh one when the object does not
// exist yet.
func (s *S3Store) Load(ctx context.Context) (*Document, error) {
	result, err := s.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return NewDocument(), nil
		}
		return nil, fmt.Errorf("failed to get state object s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read state object body: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse state object s3://%s/%s: %w", s.bucket, s.key, err)
	}
	if doc.Version > CurrentVersion {
		return nil, fmt.Errorf("state object s3://%s/%s has version %d, this build understands up to %d",
			s.bucket, s.key, doc.Version, CurrentVersion)
	}
	if doc.Nodes == nil {
		doc.Nodes = make(map[string]NodeState)
	}
	if doc.Outputs == nil {
		doc.Outputs = make(map[string]string)
	}
	return &doc, nil
}

// Save uploads the document.
func (s *S3Store) Save(ctx context.Context, doc *Document) error {
	doc.Version = CurrentVersion
	doc.UpdatedAt = time.Now().UTC()

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	_, err = s.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/yaml"),
	})
	if err != nil {
		return fmt.Errorf("failed to put state object s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

// isNoSuchKey checks whether the error means the object does not exist,
// including S3-compatible services that only return an API error code.
func isNoSuchKey(err error) bool {
	if err == nil {
		return false
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound" || code == "404"
	}

	return false
}
