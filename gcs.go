package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

type GCSClient struct {
	Client *storage.Client
}

func NewGCSBucketClient(ctx context.Context) (BucketClient, error) {
	client, clientErr := storage.NewClient(ctx)
	if clientErr != nil {
		return nil, fmt.Errorf("error creating gcs client: %w", clientErr)
	}
	return &GCSClient{Client: client}, nil
}

func (g *GCSClient) BucketExists(ctx context.Context, bucket string) (bool, error) {
	_, attrsErr := g.Client.Bucket(bucket).Attrs(ctx)
	if attrsErr == storage.ErrBucketNotExist {
		return false, nil
	}
	if attrsErr != nil {
		return false, attrsErr
	}
	return true, nil
}

func (g *GCSClient) ListObjects(ctx context.Context, bucket string) (RemoteIndex, error) {
	index := make(RemoteIndex)
	objIter := g.Client.Bucket(bucket).Objects(ctx, nil)
	for {
		attrs, err := objIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return index, &RemoteUnavailable{Bucket: bucket, Err: err}
		}
		index[attrs.Name] = attrs.Size
	}

	return index, nil
}

func (g *GCSClient) UploadFile(ctx context.Context, bucket, key, localPath string, onProgress ProgressFunc) error {
	fd, fileErr := os.Open(localPath)
	if fileErr != nil {
		return fileErr
	}
	defer fd.Close()

	var body io.Reader = fd
	if onProgress != nil {
		body = &progressReader{reader: fd, fn: onProgress}
	}

	objWriter := g.Client.Bucket(bucket).Object(key).NewWriter(ctx)
	if _, uploadErr := io.Copy(objWriter, body); uploadErr != nil {
		objWriter.Close()
		return &TransferError{Key: key, Err: uploadErr}
	}
	if closeErr := objWriter.Close(); closeErr != nil {
		return &TransferError{Key: key, Err: closeErr}
	}

	return nil
}
