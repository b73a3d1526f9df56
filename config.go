package main

import (
	"context"
	"fmt"
	"os"
	"strings"
)

type RetryConfig struct {
	MaxAttempts int    `default:"10"`
	Mode        string `default:"adaptive"`
}

type AppConfig struct {
	Provider   string `required:"true"`
	AWSRegion  string
	IAMProfile string

	Bucket        string `required:"true"`
	UploadDir     string `required:"true"`
	S3Prefix      string
	ExcludePrefix string

	SkipDotFiles bool `default:"true"`
	Overwrite    bool
	Sequential   bool

	FileExclusion   []string
	FolderExclusion []string

	Concurrency      int    `default:"5"`
	MetadataInterval int    `default:"300"`
	MetadataFilename string `default:"METADATA.json"`

	SNSTopic string
	EnvFile  string

	LogLevel string `default:"info"`
	LogFile  string

	Retry RetryConfig
}

// Validate performs the checks that must fail before any scanning or
// network work starts.
func (c AppConfig) Validate() error {
	if c.UploadDir == "" {
		return &ConfigurationError{Reason: "cannot proceed without an upload directory"}
	}
	info, statErr := os.Stat(c.UploadDir)
	if statErr != nil {
		return &ConfigurationError{Reason: fmt.Sprintf("path not found: %s", c.UploadDir)}
	}
	if !info.IsDir() {
		return &ConfigurationError{Reason: fmt.Sprintf("upload directory is not a directory: %s", c.UploadDir)}
	}
	if c.Bucket == "" {
		return &ConfigurationError{Reason: "cannot proceed without a bucket name"}
	}
	// An exclude prefix outside the upload directory can never produce
	// a valid relative object path.
	if c.ExcludePrefix != "" && !strings.Contains(c.UploadDir, c.ExcludePrefix) {
		return &ConfigurationError{
			Reason: fmt.Sprintf("exclude prefix %q is not a part of upload directory %q", c.ExcludePrefix, c.UploadDir),
		}
	}
	if c.Concurrency < 1 {
		return &ConfigurationError{Reason: fmt.Sprintf("concurrency must be at least 1, got %d", c.Concurrency)}
	}
	if c.MetadataInterval < 1 {
		return &ConfigurationError{Reason: fmt.Sprintf("metadata interval must be at least 1 second, got %d", c.MetadataInterval)}
	}
	return nil
}

func (c AppConfig) ClientFromConfig(ctx context.Context) (BucketClient, error) {
	var bucketClient BucketClient

	switch c.Provider {
	case "aws":
		return NewS3BucketClient(ctx, c)
	case "gcs":
		return NewGCSBucketClient(ctx)
	default:
		return bucketClient, fmt.Errorf("unknown cloud provider: %s", c.Provider)
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
