package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Client object storage erişimi. Testlerde sahte implementasyon kullanılır.
type Client interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, keys ...string) error
	PublicURL(key string) string
}

// Default main tarafından Init ile set edilir
var Default Client

type r2Client struct {
	s3        *s3.Client
	bucket    string
	publicURL string
}

func Init() error {
	client, err := NewR2Client()
	if err != nil {
		return err
	}
	Default = client
	return nil
}

func NewR2Client() (Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("R2_ACCESS_KEY"),
			os.Getenv("R2_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", os.Getenv("R2_ACCOUNT_ID")))
		o.UsePathStyle = true
		o.Region = "auto"
	})

	bucket := os.Getenv("R2_BUCKET_NAME")
	if bucket == "" {
		bucket = "units"
	}
	publicURL := os.Getenv("R2_PUBLIC_URL")
	if publicURL == "" {
		publicURL = "https://cdn.aqarcrm.com"
	}

	return &r2Client{s3: client, bucket: bucket, publicURL: strings.TrimSuffix(publicURL, "/")}, nil
}

func (c *r2Client) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := c.s3.PutObject(ctx, input); err != nil {
		return fmt.Errorf("could not upload file to R2: %v", err)
	}
	return nil
}

func (c *r2Client) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		input := &s3.DeleteObjectInput{
			Bucket: aws.String(c.bucket),
			Key:    aws.String(key),
		}
		if _, err := c.s3.DeleteObject(ctx, input); err != nil {
			return fmt.Errorf("could not delete %s from R2: %v", key, err)
		}
	}
	return nil
}

func (c *r2Client) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s", c.publicURL, key)
}

// SafeFileName dosya adını URL-safe hale getirir, boşsa unique bir ad üretir
func SafeFileName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	safe := slug.Make(base)
	if safe == "" {
		safe = uuid.New().String()
	}
	return safe + ext
}

// UnitPrimaryKey ana fotoğraf için object key üretir: <unitID>/primary/<file>
func UnitPrimaryKey(unitID uint, filename string) string {
	return fmt.Sprintf("%d/primary/%s", unitID, SafeFileName(filename))
}

// UnitGalleryKey galeri fotoğrafı için object key üretir: <unitID>/gallery/<file>
func UnitGalleryKey(unitID uint, filename string) string {
	return fmt.Sprintf("%d/gallery/%s", unitID, SafeFileName(filename))
}
