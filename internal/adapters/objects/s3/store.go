package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"pet-tag/internal/ports/objects"
)

var _ objects.Store = (*Store)(nil)

type Config struct {
	Bucket        string
	Region        string
	Endpoint      string // opcional (MinIO / R2)
	AccessKey     string
	SecretKey     string
	PublicBaseURL string // prefijo público del bucket, p.ej. https://cdn.example.com/pet-photos
}

// API es el subconjunto del cliente S3 que usamos (seam para tests).
type API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Store struct {
	api        API
	bucket     string
	publicBase string
}

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

// New arma el cliente S3. Con Endpoint seteado usa path-style (MinIO).
func New(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("s3: bucket required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewWithAPI(client, cfg.Bucket, cfg.PublicBaseURL), nil
}

func NewWithAPI(api API, bucket, publicBaseURL string) *Store {
	return &Store{
		api:        api,
		bucket:     bucket,
		publicBase: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
	}
}

func (s *Store) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3: put %s: %w", key, err)
	}
	return s.publicBase + "/" + strings.TrimLeft(key, "/"), nil
}

func (s *Store) KeyForURL(u string) (string, bool) {
	key, ok := strings.CutPrefix(u, s.publicBase+"/")
	return key, ok && key != ""
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3: delete %s: %w", key, err)
	}
	return nil
}
