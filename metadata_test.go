package main

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func metadataFixture(t *testing.T) (AppConfig, []UploadTask) {
	t.Helper()
	dir := t.TempDir()
	first := writeTestFile(t, dir, "a.txt", strings.Repeat("x", 100))
	second := writeTestFile(t, dir, "b.txt", strings.Repeat("y", 200))

	cfg := AppConfig{
		Bucket:           "not-real-bucket",
		UploadDir:        dir,
		ExcludePrefix:    dir,
		MetadataFilename: "METADATA.json",
	}
	tasks := []UploadTask{
		{LocalPath: first, ObjectKey: "a.txt", Size: 100},
		{LocalPath: second, ObjectKey: "b.txt", Size: 200},
	}
	return cfg, tasks
}

func TestSnapshotCountsAreSelfConsistent(t *testing.T) {
	cfg, tasks := metadataFixture(t)
	results := NewResultSet()
	results.AddSuccess(tasks[0].LocalPath)
	reporter := NewMetadataReporter(NewMockClient(RemoteIndex{}), cfg, tasks, results)

	snapshot := reporter.Snapshot()

	assert.Equal(t, len(tasks), snapshot.ObjectsUploaded+snapshot.ObjectsPending)
	assert.Equal(t, 1, snapshot.ObjectsUploaded)
	assert.Equal(t, 1, snapshot.ObjectsPending)
	assert.Equal(t, 0, snapshot.ObjectsFailed)
	assert.Equal(t, "100 B", snapshot.SizeUploaded)
	assert.Equal(t, "200 B", snapshot.SizePending)
	assert.Equal(t, "0 B", snapshot.SizeFailed)
}

func TestSnapshotSkippedCountsAsLanded(t *testing.T) {
	cfg, tasks := metadataFixture(t)
	results := NewResultSet()
	results.AddSuccess(tasks[0].LocalPath)
	results.AddSkipped(tasks[1].LocalPath)
	reporter := NewMetadataReporter(NewMockClient(RemoteIndex{}), cfg, tasks, results)

	snapshot := reporter.Snapshot()

	assert.Equal(t, 2, snapshot.ObjectsUploaded)
	assert.Equal(t, 0, snapshot.ObjectsPending)
	assert.Equal(t, []string{"a.txt", "b.txt"}, snapshot.Success)
}

func TestSnapshotFailedFilesStayPending(t *testing.T) {
	cfg, tasks := metadataFixture(t)
	results := NewResultSet()
	results.AddSuccess(tasks[0].LocalPath)
	results.AddFailed(tasks[1].LocalPath)
	reporter := NewMetadataReporter(NewMockClient(RemoteIndex{}), cfg, tasks, results)

	snapshot := reporter.Snapshot()

	// A failed file has not landed, so it still counts as pending.
	assert.Equal(t, 1, snapshot.ObjectsUploaded)
	assert.Equal(t, 1, snapshot.ObjectsPending)
	assert.Equal(t, 1, snapshot.ObjectsFailed)
	assert.Equal(t, []string{"b.txt"}, snapshot.Failed)
}

func TestSnapshotReportsObjectKeysNotLocalPaths(t *testing.T) {
	cfg, tasks := metadataFixture(t)
	results := NewResultSet()
	results.AddSuccess(tasks[0].LocalPath)
	reporter := NewMetadataReporter(NewMockClient(RemoteIndex{}), cfg, tasks, results)

	snapshot := reporter.Snapshot()

	assert.Equal(t, []string{"a.txt"}, snapshot.Success)
	assert.NotContains(t, snapshot.Success, tasks[0].LocalPath)
}

func TestSnapshotToleratesDeletedFile(t *testing.T) {
	cfg, tasks := metadataFixture(t)
	results := NewResultSet()
	results.AddSuccess(tasks[0].LocalPath)
	assert.Nil(t, os.Remove(tasks[0].LocalPath))
	reporter := NewMetadataReporter(NewMockClient(RemoteIndex{}), cfg, tasks, results)

	snapshot := reporter.Snapshot()

	assert.Equal(t, 1, snapshot.ObjectsUploaded)
	assert.Equal(t, "0 B", snapshot.SizeUploaded)
}

func TestSnapshotTimestampIncludesTimezone(t *testing.T) {
	cfg, tasks := metadataFixture(t)
	reporter := NewMetadataReporter(NewMockClient(RemoteIndex{}), cfg, tasks, NewResultSet())
	reporter.now = func() time.Time {
		return time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC)
	}

	snapshot := reporter.Snapshot()

	assert.Equal(t, "Friday March 14, 2025 09:26:53 UTC", snapshot.Timestamp)
}

func TestPublishWritesLocalFileAndUploadsIt(t *testing.T) {
	cfg, tasks := metadataFixture(t)
	results := NewResultSet()
	results.AddSuccess(tasks[0].LocalPath)
	mockClient := NewMockClient(RemoteIndex{})
	reporter := NewMetadataReporter(mockClient, cfg, tasks, results)

	publishErr := reporter.Publish()

	assert.Nil(t, publishErr)
	assert.Len(t, mockClient.UploadRequests, 1)
	assert.Equal(t, "METADATA.json", mockClient.UploadRequests[0].Key)
	assert.Equal(t, "not-real-bucket", mockClient.UploadRequests[0].Bucket)

	payload, readErr := os.ReadFile(reporter.localPath)
	assert.Nil(t, readErr)
	var snapshot MetadataSnapshot
	assert.Nil(t, json.Unmarshal(payload, &snapshot))
	assert.Equal(t, 1, snapshot.ObjectsUploaded)
	assert.Equal(t, 1, snapshot.ObjectsPending)
}

func TestPublishToleratesListingFailure(t *testing.T) {
	cfg, tasks := metadataFixture(t)
	mockClient := NewMockClient(RemoteIndex{})
	mockClient.FailListing(&RemoteUnavailable{Bucket: cfg.Bucket, Err: assert.AnError})
	reporter := NewMetadataReporter(mockClient, cfg, tasks, NewResultSet())

	// The listing refresh is informational; the snapshot still goes out.
	publishErr := reporter.Publish()

	assert.Nil(t, publishErr)
	assert.Len(t, mockClient.UploadRequests, 1)
}

func TestPublishOverwritesPreviousSnapshot(t *testing.T) {
	cfg, tasks := metadataFixture(t)
	results := NewResultSet()
	mockClient := NewMockClient(RemoteIndex{})
	reporter := NewMetadataReporter(mockClient, cfg, tasks, results)

	assert.Nil(t, reporter.Publish())
	results.AddSuccess(tasks[0].LocalPath)
	results.AddSuccess(tasks[1].LocalPath)
	assert.Nil(t, reporter.Publish())

	// Same key both times; the second publish replaces the first.
	assert.Len(t, mockClient.UploadRequests, 2)
	assert.Equal(t, mockClient.UploadRequests[0].Key, mockClient.UploadRequests[1].Key)

	payload, readErr := os.ReadFile(reporter.localPath)
	assert.Nil(t, readErr)
	var snapshot MetadataSnapshot
	assert.Nil(t, json.Unmarshal(payload, &snapshot))
	assert.Equal(t, 2, snapshot.ObjectsUploaded)
	assert.Equal(t, 0, snapshot.ObjectsPending)
}
