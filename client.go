package main

import (
	"context"
	"io"
)

// ProgressFunc receives the byte count of each transferred chunk. It
// may be called from the storage client's own goroutines, so
// implementations must be safe for concurrent use.
type ProgressFunc func(bytesTransferred int64)

// RemoteIndex maps object keys to their remote byte sizes. It is
// built fresh from a full bucket listing, never updated in place.
type RemoteIndex map[string]int64

// BucketClient is the storage-side contract. Implementations own
// their retry/backoff policy; transfer failures surface as
// *TransferError only after retries are exhausted.
type BucketClient interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	ListObjects(ctx context.Context, bucket string) (RemoteIndex, error)
	UploadFile(ctx context.Context, bucket, key, localPath string, onProgress ProgressFunc) error
}

// progressReader reports read increments to the progress callback as
// the uploader consumes the file.
type progressReader struct {
	reader io.Reader
	fn     ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.reader.Read(buf)
	if n > 0 && p.fn != nil {
		p.fn(int64(n))
	}
	return n, err
}
