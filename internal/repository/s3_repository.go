package repository

import (
	"bytes"
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	appconfig "bootcheck/internal/config"
)

// ReportArchive stores rendered report documents.
type ReportArchive interface {
	Store(ctx context.Context, key string, body []byte, contentType string) error
}

// ObjectAPI is the part of *s3.Client the archive uses.
type ObjectAPI interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Archive struct {
	client ObjectAPI
	bucket string
	region string
	log    *zap.Logger
}

func NewS3Archive(ctx context.Context, cfg *appconfig.ArchiveConfig, log *zap.Logger) (ReportArchive, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	archive := newS3Archive(client, cfg.BucketName, cfg.Region, log)

	if err := archive.ensureBucketExists(ctx); err != nil {
		log.Warn("Failed to ensure bucket exists", zap.Error(err))
	}

	return archive, nil
}

func newS3Archive(client ObjectAPI, bucket, region string, log *zap.Logger) *s3Archive {
	return &s3Archive{client: client, bucket: bucket, region: region, log: log}
}

func (r *s3Archive) ensureBucketExists(ctx context.Context) error {
	_, err := r.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(r.bucket),
	})
	if err == nil {
		r.log.Info("Bucket already exists", zap.String("bucket", r.bucket))
		return nil
	}

	r.log.Info("Creating bucket", zap.String("bucket", r.bucket))

	input := &s3.CreateBucketInput{Bucket: aws.String(r.bucket)}
	// us-east-1 rejects an explicit location constraint.
	if r.region != "" && r.region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(r.region),
		}
	}

	if _, err := r.client.CreateBucket(ctx, input); err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return nil
		}
		return err
	}

	r.log.Info("Bucket created successfully", zap.String("bucket", r.bucket))
	return nil
}

func (r *s3Archive) Store(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		r.log.Error("Failed to archive report",
			zap.String("key", key),
			zap.Error(err))
		return err
	}

	r.log.Info("Report archived",
		zap.String("bucket", r.bucket),
		zap.String("key", key),
		zap.Int("size", len(body)))

	return nil
}
