package repository

import (
	"bytes"
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	appconfig "simdiag/internal/config"
)

// ObjectPutter is the part of the S3 client the archive uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

type s3Archive struct {
	client ObjectPutter
	cfg    *appconfig.S3Config
	log    *zap.Logger
}

func NewS3Archive(ctx context.Context, cfg *appconfig.S3Config, log *zap.Logger) (ArchiveRepository, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(endpointURL(cfg.Endpoint, cfg.UseSSL))
		}
		o.UsePathStyle = true
	})

	return NewS3ArchiveWithClient(ctx, client, cfg, log), nil
}

func NewS3ArchiveWithClient(ctx context.Context, client ObjectPutter, cfg *appconfig.S3Config, log *zap.Logger) ArchiveRepository {
	a := &s3Archive{
		client: client,
		cfg:    cfg,
		log:    log,
	}

	if err := a.ensureBucketExists(ctx); err != nil {
		log.Warn("Failed to ensure bucket exists", zap.Error(err))
	}

	return a
}

func (a *s3Archive) ensureBucketExists(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(a.cfg.BucketName),
	})
	if err == nil {
		a.log.Info("Bucket already exists", zap.String("bucket", a.cfg.BucketName))
		return nil
	}

	a.log.Info("Creating bucket", zap.String("bucket", a.cfg.BucketName))

	input := &s3.CreateBucketInput{Bucket: aws.String(a.cfg.BucketName)}
	// us-east-1 rejects an explicit location constraint.
	if a.cfg.Region != "" && a.cfg.Region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(a.cfg.Region),
		}
	}
	if _, err := a.client.CreateBucket(ctx, input); err != nil {
		return err
	}

	a.log.Info("Bucket created successfully", zap.String("bucket", a.cfg.BucketName))
	return nil
}

func (a *s3Archive) Store(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.cfg.BucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		a.log.Error("Failed to archive upload",
			zap.String("key", key),
			zap.Error(err))
		return err
	}

	a.log.Info("Upload archived",
		zap.String("key", key),
		zap.Int("size", len(data)))

	return nil
}

func endpointURL(endpoint string, useSSL bool) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}
