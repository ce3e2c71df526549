package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	cfg "github.com/lendledger/lendledger-backend/internal/config"
)

// StatementArchive stores exported statement PDFs for audit purposes
type StatementArchive interface {
	Store(ctx context.Context, loanID int32, pdf []byte) (string, error)
}

// S3StatementArchive implements StatementArchive using AWS S3
type S3StatementArchive struct {
	client *s3.Client
	bucket string
}

// NewS3StatementArchive creates a new S3-backed statement archive
func NewS3StatementArchive(ctx context.Context, archiveCfg cfg.ArchiveConfig) (*S3StatementArchive, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(archiveCfg.Region),
	}

	if archiveCfg.AccessKeyID != "" && archiveCfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				archiveCfg.AccessKeyID,
				archiveCfg.SecretAccessKey,
				"",
			),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Endpoint override supports MinIO/LocalStack in local dev
	var client *s3.Client
	if archiveCfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(archiveCfg.Endpoint)
			o.UsePathStyle = true // Required for MinIO
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	archive := &S3StatementArchive{
		client: client,
		bucket: archiveCfg.Bucket,
	}

	if err := archive.ensureBucket(ctx); err != nil {
		return nil, err
	}

	return archive, nil
}

// ensureBucket creates the bucket if it doesn't exist (private bucket)
func (a *S3StatementArchive) ensureBucket(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(a.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	if !errors.As(err, &notFound) {
		var noSuchBucket *types.NoSuchBucket
		if !errors.As(err, &noSuchBucket) {
			return fmt.Errorf("failed to check bucket (may be permission denied): %w", err)
		}
	}

	_, err = a.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(a.bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Store uploads a statement PDF and returns the object key. Keys are
// time-stamped so successive exports of the same loan never overwrite each
// other.
func (a *S3StatementArchive) Store(ctx context.Context, loanID int32, pdf []byte) (string, error) {
	key := fmt.Sprintf("statements/loan_%d/%s.pdf", loanID, time.Now().UTC().Format("20060102T150405Z"))

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(pdf),
		ContentType:   aws.String("application/pdf"),
		ContentLength: aws.Int64(int64(len(pdf))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload statement: %w", err)
	}

	return key, nil
}
