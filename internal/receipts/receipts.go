// Package receipts archives settled payment receipts to object storage.
package receipts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/arcagent/arcagent/internal/config"
	"github.com/arcagent/arcagent/internal/model"
)

// ObjectPutter is the subset of the S3 client used for archiving.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Archiver interface {
	Archive(ctx context.Context, r model.Receipt) (string, error)
}

// NopArchiver discards receipts. Used when no bucket is configured.
type NopArchiver struct{}

func (NopArchiver) Archive(context.Context, model.Receipt) (string, error) { return "", nil }

type S3Archiver struct {
	client ObjectPutter
	bucket string
}

func NewS3Archiver(client ObjectPutter, bucket string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket}
}

// NewS3Client returns a path-style S3 client with static credentials, which
// works against AWS as well as S3-compatible stores.
func NewS3Client(endpoint, region, accessKey, secretKey string) *s3.Client {
	opts := s3.Options{
		Region:       region,
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
	}
	return s3.New(opts)
}

// Key returns the object key for a receipt.
func Key(r model.Receipt) string {
	return fmt.Sprintf("receipts/%s/%s.json", r.PhoneNumber, r.TransactionID)
}

// Archive writes the receipt as JSON. Writing the same receipt twice
// overwrites the object with identical content.
func (a *S3Archiver) Archive(ctx context.Context, r model.Receipt) (string, error) {
	body, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal receipt: %w", err)
	}

	key := Key(r)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"transaction-id": r.TransactionID,
			"workflow-id":    r.WorkflowID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("put receipt %s: %w", key, err)
	}
	return key, nil
}

// NewFromConfig returns an S3 archiver when a receipt bucket is configured
// and a no-op archiver otherwise.
func NewFromConfig(cfg *config.Config) Archiver {
	if cfg.ReceiptBucket == "" {
		return NopArchiver{}
	}
	client := NewS3Client(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey)
	return NewS3Archiver(client, cfg.ReceiptBucket)
}
