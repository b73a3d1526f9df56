package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-co-op/gocron"
	log "github.com/sirupsen/logrus"
)

// MetadataSnapshot is the state document published to the bucket. It
// is recomputed wholesale at every publish, never partially mutated.
type MetadataSnapshot struct {
	Timestamp       string   `json:"timestamp"`
	ObjectsUploaded int      `json:"objects_uploaded"`
	ObjectsPending  int      `json:"objects_pending"`
	ObjectsFailed   int      `json:"objects_failed"`
	SizeUploaded    string   `json:"size_uploaded"`
	SizePending     string   `json:"size_pending"`
	SizeFailed      string   `json:"size_failed"`
	Success         []string `json:"success"`
	Failed          []string `json:"failed"`
}

const metadataTimestampLayout = "Monday January 02, 2006 15:04:05 MST"

// MetadataReporter publishes a MetadataSnapshot on a fixed interval
// and once more at shutdown. It only ever reads the result set and
// the filesystem, so it is safe to run alongside in-flight uploads.
type MetadataReporter struct {
	client    BucketClient
	bucket    string
	objectKey string
	localPath string
	tasks     []UploadTask
	results   *ResultSet
	scheduler *gocron.Scheduler
	now       func() time.Time
}

func NewMetadataReporter(client BucketClient, cfg AppConfig, tasks []UploadTask, results *ResultSet) *MetadataReporter {
	return &MetadataReporter{
		client:    client,
		bucket:    cfg.Bucket,
		objectKey: cfg.MetadataFilename,
		localPath: filepath.Join(os.TempDir(), cfg.MetadataFilename),
		tasks:     tasks,
		results:   results,
		now:       time.Now,
	}
}

// Start publishes on a fixed wall-clock interval until Stop is called.
func (m *MetadataReporter) Start(intervalSeconds int) error {
	m.scheduler = gocron.NewScheduler(time.UTC)
	_, jobErr := m.scheduler.Every(intervalSeconds).Seconds().Do(func() {
		if publishErr := m.Publish(); publishErr != nil {
			log.Warn(fmt.Sprintf("Metadata publish failed: %s", publishErr))
		}
	})
	if jobErr != nil {
		return jobErr
	}
	m.scheduler.StartAsync()
	return nil
}

// Stop halts the interval and publishes one final snapshot so the
// uploaded state reflects the finished run.
func (m *MetadataReporter) Stop() {
	if m.scheduler != nil {
		m.scheduler.Stop()
	}
	if publishErr := m.Publish(); publishErr != nil {
		log.Warn(fmt.Sprintf("Final metadata publish failed: %s", publishErr))
	}
}

// Snapshot rebuilds the aggregate view from a copy of the result set.
// Landed means Success or Skipped: either way the object exists
// remotely with a matching size. Byte totals come from a fresh stat
// per file, tolerating files deleted mid-run.
func (m *MetadataReporter) Snapshot() MetadataSnapshot {
	success, skipped, failed := m.results.Snapshot()

	landed := make([]string, 0, len(success)+len(skipped))
	landed = append(landed, success...)
	landed = append(landed, skipped...)
	landedSet := toSet(landed)

	pending := make([]string, 0)
	for _, task := range m.tasks {
		if _, ok := landedSet[task.LocalPath]; !ok {
			pending = append(pending, task.LocalPath)
		}
	}

	keyByPath := make(map[string]string, len(m.tasks))
	for _, task := range m.tasks {
		keyByPath[task.LocalPath] = task.ObjectKey
	}

	return MetadataSnapshot{
		Timestamp:       m.now().UTC().Format(metadataTimestampLayout),
		ObjectsUploaded: len(landed),
		ObjectsPending:  len(pending),
		ObjectsFailed:   len(failed),
		SizeUploaded:    sizeConverter(totalFileSize(landed)),
		SizePending:     sizeConverter(totalFileSize(pending)),
		SizeFailed:      sizeConverter(totalFileSize(failed)),
		Success:         objectKeys(landed, keyByPath),
		Failed:          objectKeys(failed, keyByPath),
	}
}

// Publish refreshes the bucket listing, writes the snapshot to a
// fixed local file, then uploads it under a fixed object key,
// overwriting the previous snapshot.
func (m *MetadataReporter) Publish() error {
	remoteIndex, listErr := m.client.ListObjects(context.Background(), m.bucket)
	if listErr != nil {
		log.Warn(fmt.Sprintf("Metadata refresh of bucket listing failed: %s", listErr))
	} else {
		log.Debug(fmt.Sprintf("Bucket %s currently holds %d objects", m.bucket, len(remoteIndex)))
	}

	snapshot := m.Snapshot()
	payload, marshalErr := json.MarshalIndent(snapshot, "", "  ")
	if marshalErr != nil {
		return marshalErr
	}
	if writeErr := os.WriteFile(m.localPath, payload, 0o644); writeErr != nil {
		return writeErr
	}

	log.Debug(fmt.Sprintf("Uploading metadata to %s", m.bucket))
	return m.client.UploadFile(context.Background(), m.bucket, m.objectKey, m.localPath, nil)
}

func totalFileSize(paths []string) int64 {
	var total int64
	for _, path := range paths {
		total += filesize(path)
	}
	return total
}

func objectKeys(paths []string, keyByPath map[string]string) []string {
	keys := make([]string, 0, len(paths))
	for _, path := range paths {
		keys = append(keys, keyByPath[path])
	}
	return keys
}
