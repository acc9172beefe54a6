package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DerivedPrefix is the namespace derived artifacts are written under.
const DerivedPrefix = "resized/"

// UploadURLExpiry bounds how long an issued upload handle stays valid.
const UploadURLExpiry = 60 * time.Second

// S3Service wraps one bucket. Artifact bytes live in S3 only; downloads are
// held in memory for the duration of a single pipeline invocation.
type S3Service struct {
	client     *s3.Client
	presign    *s3.PresignClient
	bucketName string
}

func NewS3Service(cfg aws.Config, bucketName string) *S3Service {
	client := s3.NewFromConfig(cfg)
	return &S3Service{
		client:     client,
		presign:    s3.NewPresignClient(client),
		bucketName: bucketName,
	}
}

func (s *S3Service) Bucket() string {
	return s.bucketName
}

// Download fetches the object at key and returns its bytes.
func (s *S3Service) Download(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("couldn't download object with key: %s, AWS error: %w", key, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object data for key %s: %w", key, err)
	}
	return body, nil
}

// Upload writes data to key with the given content type.
func (s *S3Service) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Minute)
	defer cancel()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", key, err)
	}
	return nil
}

// PresignUpload issues a short-lived PUT URL for key. The content type is
// bound into the signature, so only an upload sending the same Content-Type
// header succeeds.
func (s *S3Service) PresignUpload(ctx context.Context, key string, contentType string) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(UploadURLExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign url for %s: %w", key, err)
	}
	return req.URL, nil
}
