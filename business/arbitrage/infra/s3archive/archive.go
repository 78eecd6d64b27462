// Package s3archive stores evaluation reports as JSONL objects in an
// S3-compatible bucket (AWS S3, MinIO, R2).
package s3archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/app"
	"github.com/fd1az/arbitrage-evaluator/business/arbitrage/domain"
	"github.com/fd1az/arbitrage-evaluator/internal/apperror"
	"github.com/fd1az/arbitrage-evaluator/internal/logger"
)

const contentType = "application/x-ndjson"

// Config holds the bucket connection settings.
type Config struct {
	// Endpoint overrides the AWS endpoint, e.g. "http://localhost:9000".
	// Leave empty for AWS S3.
	Endpoint       string
	Region         string
	Bucket         string
	Prefix         string
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
}

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type bucketHeader interface {
	HeadBucket(ctx context.Context, input *s3.HeadBucketInput, opts ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Archive implements app.Archive.
type Archive struct {
	uploader uploader
	head     bucketHeader
	bucket   string
	prefix   string
	logger   logger.LoggerInterface
}

var _ app.Archive = (*Archive)(nil)

// New builds the S3 client from cfg.
func New(ctx context.Context, cfg Config, log logger.LoggerInterface) (*Archive, error) {
	if cfg.Bucket == "" {
		return nil, apperror.New(apperror.CodeConfigurationError, apperror.WithContext("archive bucket is required"))
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, apperror.New(apperror.CodeConfigurationError, apperror.WithCause(err), apperror.WithContext("load aws config"))
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(normaliseEndpoint(cfg.Endpoint))
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return newArchive(manager.NewUploader(client), client, cfg.Bucket, cfg.Prefix, log), nil
}

func newArchive(up uploader, head bucketHeader, bucket, prefix string, log logger.LoggerInterface) *Archive {
	return &Archive{uploader: up, head: head, bucket: bucket, prefix: prefix, logger: log}
}

// Store uploads one report as a single-line JSONL object.
func (a *Archive) Store(ctx context.Context, report *domain.Report) error {
	body, err := encode(report)
	if err != nil {
		return apperror.New(apperror.CodeArchiveFailed, apperror.WithCause(err), apperror.WithContext("encode report "+report.ID))
	}

	key := Key(a.prefix, report)
	_, err = a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return apperror.New(apperror.CodeArchiveFailed, apperror.WithCause(err), apperror.WithContext(fmt.Sprintf("upload s3://%s/%s", a.bucket, key)))
	}

	a.logger.Debug(ctx, "report archived", "bucket", a.bucket, "key", key, "bytes", len(body))
	return nil
}

// Ping checks that the bucket is reachable.
func (a *Archive) Ping(ctx context.Context) error {
	if _, err := a.head.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(a.bucket)}); err != nil {
		return apperror.New(apperror.CodeArchiveFailed, apperror.WithCause(err), apperror.WithContext("head bucket "+a.bucket))
	}
	return nil
}

// Key returns prefix/YYYY/MM/DD/<id>.jsonl, dated by the report timestamp in UTC.
func Key(prefix string, report *domain.Report) string {
	ts := report.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return path.Join(prefix, ts.UTC().Format("2006/01/02"), report.ID+".jsonl")
}

func encode(report *domain.Report) ([]byte, error) {
	b, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func normaliseEndpoint(endpoint string) string {
	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		return endpoint
	}
	return "https://" + endpoint
}
