// Package s3 implements vault.Store on Amazon S3 or an S3-compatible
// service. Documents are objects under an optional key prefix; a path
// with objects below "path/" is reported as a folder.
package s3

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/kbukum/voicenotes/errors"
	"github.com/kbukum/voicenotes/logger"
	"github.com/kbukum/voicenotes/vault"
)

func init() {
	vault.RegisterFactory(vault.ProviderS3, func(cfg vault.Config, log *logger.Logger) (vault.Store, error) {
		return NewStore(context.Background(), cfg, log)
	})
}

// API is the subset of the S3 client the store uses.
type API interface {
	HeadObject(ctx context.Context, in *awss3.HeadObjectInput, opts ...func(*awss3.Options)) (*awss3.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *awss3.GetObjectInput, opts ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *awss3.PutObjectInput, opts ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *awss3.ListObjectsV2Input, opts ...func(*awss3.Options)) (*awss3.ListObjectsV2Output, error)
}

// Store implements vault.Store on an S3 bucket.
type Store struct {
	client   API
	bucket   string
	prefix   string
	endpoint string
	log      *logger.Logger
}

// NewStore creates an S3 client from cfg and wraps it.
func NewStore(ctx context.Context, cfg vault.Config, log *logger.Logger) (*Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("vault: load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		if cfg.ForcePathStyle {
			o.UsePathStyle = true
		}
	})

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://s3.%s.amazonaws.com", cfg.Region)
	}
	return NewStoreWithClient(client, cfg.Bucket, cfg.Prefix, endpoint, log), nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client API, bucket, prefix, endpoint string, log *logger.Logger) *Store {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Store{
		client:   client,
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		endpoint: strings.TrimSuffix(endpoint, "/"),
		log:      log.WithComponent("vault.s3"),
	}
}

// key maps a document path to an object key.
func (s *Store) key(p string) string {
	clean := strings.TrimPrefix(path.Clean("/"+p), "/")
	if s.prefix == "" {
		return clean
	}
	return s.prefix + "/" + clean
}

// Lookup reports what exists at p.
func (s *Store) Lookup(ctx context.Context, p string) (vault.Entry, error) {
	key := s.key(p)
	out, err := s.client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		entry := vault.Entry{Path: p, Kind: vault.KindDocument, Size: aws.ToInt64(out.ContentLength)}
		if out.LastModified != nil {
			entry.ModTime = *out.LastModified
		}
		return entry, nil
	}
	if !isNotFound(err) {
		return vault.Entry{}, errors.StorageError("stat", p, err)
	}

	list, err := s.client.ListObjectsV2(ctx, &awss3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(key + "/"),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return vault.Entry{}, errors.StorageError("list", p, err)
	}
	if len(list.Contents) > 0 {
		return vault.Entry{Path: p, Kind: vault.KindOther}, nil
	}
	return vault.Entry{Path: p, Kind: vault.KindMissing}, nil
}

// Read returns the content of the object at p.
func (s *Store) Read(ctx context.Context, p string) (string, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(p)),
	})
	if err != nil {
		if isNotFound(err) {
			return "", errors.NotFound("document", p)
		}
		return "", errors.StorageError("read", p, err)
	}
	defer out.Body.Close() //nolint:errcheck // read-only body

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", errors.StorageError("read", p, err)
	}
	return string(data), nil
}

// Create writes a new object. The write is conditional on no object
// existing at the key.
func (s *Store) Create(ctx context.Context, p, content string) error {
	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(p)),
		Body:        strings.NewReader(content),
		ContentType: aws.String(contentType(p)),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		if apiErrorCode(err) == "PreconditionFailed" {
			return errors.AlreadyExists(p)
		}
		return errors.StorageError("create", p, err)
	}
	s.log.Debug("document created", logger.Fields(logger.FieldDocument, p))
	return nil
}

// Modify replaces the object at p.
func (s *Store) Modify(ctx context.Context, p, content string) error {
	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(p)),
		Body:        strings.NewReader(content),
		ContentType: aws.String(contentType(p)),
	})
	if err != nil {
		return errors.StorageError("write", p, err)
	}
	s.log.Debug("document modified", logger.Fields(logger.FieldDocument, p))
	return nil
}

// URL returns the object URL for p.
func (s *Store) URL(p string) string {
	return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, s.key(p))
}

func contentType(p string) string {
	if strings.HasSuffix(strings.ToLower(p), ".md") {
		return "text/markdown; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

func isNotFound(err error) bool {
	switch apiErrorCode(err) {
	case "NotFound", "NoSuchKey":
		return true
	}
	return false
}

func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// compile-time checks
var (
	_ vault.Store   = (*Store)(nil)
	_ vault.Locator = (*Store)(nil)
)
