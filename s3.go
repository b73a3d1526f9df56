package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3Client struct {
	Client   *s3.Client
	uploader *manager.Uploader
}

func NewS3BucketClient(ctx context.Context, appConfig AppConfig) (BucketClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithSharedConfigProfile(appConfig.IAMProfile),
		awsconfig.WithRegion(appConfig.AWSRegion),
		awsconfig.WithRetryMaxAttempts(appConfig.Retry.MaxAttempts),
		awsconfig.WithRetryMode(aws.RetryMode(appConfig.Retry.Mode)))
	if err != nil {
		return nil, fmt.Errorf("error creating s3 client: %w", err)
	}
	awsS3Client := s3.NewFromConfig(cfg)

	return &S3Client{Client: awsS3Client, uploader: manager.NewUploader(awsS3Client)}, nil
}

func (s *S3Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	_, headErr := s.Client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if headErr != nil {
		var notFound *types.NotFound
		if errors.As(headErr, &notFound) {
			return false, nil
		}
		return false, headErr
	}
	return true, nil
}

func (s *S3Client) ListObjects(ctx context.Context, bucket string) (RemoteIndex, error) {
	index := make(RemoteIndex)
	listParams := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}
	paginator := s3.NewListObjectsV2Paginator(s.Client, listParams, func(o *s3.ListObjectsV2PaginatorOptions) {})
	for paginator.HasMorePages() {
		currentPage, pageErr := paginator.NextPage(ctx)
		if pageErr != nil {
			return index, &RemoteUnavailable{Bucket: bucket, Err: pageErr}
		}
		for _, object := range currentPage.Contents {
			index[*object.Key] = object.Size
		}
	}

	return index, nil
}

func (s *S3Client) UploadFile(ctx context.Context, bucket, key, localPath string, onProgress ProgressFunc) error {
	fd, fileErr := os.Open(localPath)
	if fileErr != nil {
		return fileErr
	}
	defer fd.Close()

	var body io.Reader = fd
	if onProgress != nil {
		body = &progressReader{reader: fd, fn: onProgress}
	}

	_, putErr := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if putErr != nil {
		return &TransferError{Key: key, Err: putErr}
	}

	return nil
}
