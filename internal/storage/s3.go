package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	log "github.com/sirupsen/logrus"
)

const defaultKeyPrefix = "uploads"

type Config struct {
	Bucket string
	Region string
	DryRun bool
}

// Uploader publishes report artifacts to a S3 bucket.
type Uploader struct {
	bucket   string
	dryRun   bool
	svc      s3iface.S3API
	uploader s3manageriface.UploaderAPI
}

// NewUploader creates the S3 clients for the configured region. No request
// is sent until Upload is called.
func NewUploader(cfg Config) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name must be set")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("bucket region must be set")
	}
	svc, uploader, err := createS3Client(cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	return &Uploader{bucket: cfg.Bucket, dryRun: cfg.DryRun, svc: svc, uploader: uploader}, nil
}

// createS3Client creates an S3 client with the specified region
func createS3Client(region string) (*s3.S3, *s3manager.Uploader, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, nil, err
	}
	return s3.New(sess), s3manager.NewUploader(sess), nil
}

// checkBucketExists checks if the bucket exists in the S3 storage.
func (u *Uploader) checkBucketExists(ctx context.Context) error {
	_, err := u.svc.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(u.bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to check if bucket %s exists: %w", u.bucket, err)
	}
	return nil
}

// ObjectKey returns the key used to store the file. When key is set its last
// path element must be the file name, otherwise the file is stored under
// uploads/.
func ObjectKey(filePath, key string) (string, error) {
	filename := filepath.Base(filePath)
	if key == "" {
		return fmt.Sprintf("%s/%s", defaultKeyPrefix, filename), nil
	}
	if path.Base(key) != filename {
		return "", fmt.Errorf("object key %q must end with the file name %q", key, filename)
	}
	return strings.TrimPrefix(key, "/"), nil
}

// Upload sends filePath to the bucket, returning the object URI.
func (u *Uploader) Upload(ctx context.Context, filePath, key string, meta map[string]string) (string, error) {
	objectKey, err := ObjectKey(filePath, key)
	if err != nil {
		return "", err
	}
	uri := fmt.Sprintf("s3://%s/%s", u.bucket, objectKey)

	log.Debugf("Upload(): opening file %s", filePath)
	fd, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer fd.Close()

	if u.dryRun {
		log.Warnf("DRY-RUN mode: skipping upload to %s", uri)
		return uri, nil
	}

	if err := u.checkBucketExists(ctx); err != nil {
		return "", err
	}

	log.Debugf("Upload(): uploading to object %s", objectKey)
	_, err = u.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:   aws.String(u.bucket),
		Key:      aws.String(objectKey),
		Metadata: aws.StringMap(meta),
		Body:     fd,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file %s to bucket %s: %w", filepath.Base(filePath), u.bucket, err)
	}
	log.Info("Results published successfully to ", uri)
	return uri, nil
}
