package main

import (
	"context"
	"sync"
)

type MockUploadRequest struct {
	Bucket    string
	Key       string
	LocalPath string
}

// MockBucketClient records upload requests instead of transferring
// anything. Safe for concurrent use so executor pool tests can drive
// it from multiple workers.
type MockBucketClient struct {
	UploadRequests []MockUploadRequest
	mockIndex      RemoteIndex
	failKeys       map[string]error
	bucketExists   bool
	bucketErr      error
	listErr        error
	lock           *sync.Mutex
}

func NewMockClient(mocked RemoteIndex) *MockBucketClient {
	return &MockBucketClient{
		UploadRequests: make([]MockUploadRequest, 0),
		mockIndex:      mocked,
		failKeys:       make(map[string]error),
		bucketExists:   true,
		lock:           new(sync.Mutex),
	}
}

// FailKey makes every upload of the given key return the given error.
func (m *MockBucketClient) FailKey(key string, err error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.failKeys[key] = err
}

// SetBucketExists controls the existence probe's answer.
func (m *MockBucketClient) SetBucketExists(exists bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.bucketExists = exists
}

// FailBucketExists makes the existence probe return the given error.
func (m *MockBucketClient) FailBucketExists(err error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.bucketErr = err
}

// FailListing makes every listing call return the given error.
func (m *MockBucketClient) FailListing(err error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.listErr = err
}

func (m *MockBucketClient) BucketExists(ctx context.Context, bucket string) (bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.bucketErr != nil {
		return false, m.bucketErr
	}
	return m.bucketExists, nil
}

func (m *MockBucketClient) ListObjects(ctx context.Context, bucket string) (RemoteIndex, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	index := make(RemoteIndex, len(m.mockIndex))
	for key, size := range m.mockIndex {
		index[key] = size
	}
	return index, nil
}

func (m *MockBucketClient) UploadFile(ctx context.Context, bucket, key, localPath string, onProgress ProgressFunc) error {
	m.lock.Lock()
	failErr, shouldFail := m.failKeys[key]
	m.lock.Unlock()
	if shouldFail {
		return failErr
	}

	if onProgress != nil {
		onProgress(1)
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	m.UploadRequests = append(m.UploadRequests, MockUploadRequest{Bucket: bucket, Key: key, LocalPath: localPath})
	return nil
}

// UploadedKeys returns the keys recorded so far, in request order.
func (m *MockBucketClient) UploadedKeys() []string {
	m.lock.Lock()
	defer m.lock.Unlock()
	keys := make([]string, 0, len(m.UploadRequests))
	for _, request := range m.UploadRequests {
		keys = append(keys, request.Key)
	}
	return keys
}
