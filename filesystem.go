package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// UploadTask pairs a local file with the object key it syncs to.
// Immutable once created; one task per file that survives exclusion
// filtering.
type UploadTask struct {
	LocalPath string
	ObjectKey string
	Size      int64
}

// scanUploadDir walks the upload directory and produces one task per
// file that survives exclusion filtering. A directory whose basename
// is in the folder exclusion set is pruned entirely, children
// included. Entry order follows the walk and is not guaranteed stable
// across runs.
func scanUploadDir(cfg AppConfig) ([]UploadTask, error) {
	if cfg.UploadDir == "" {
		return nil, &ConfigurationError{Reason: "cannot proceed without an upload directory"}
	}
	info, statErr := os.Stat(cfg.UploadDir)
	if statErr != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("path not found: %s", cfg.UploadDir)}
	}
	if !info.IsDir() {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("upload directory is not a directory: %s", cfg.UploadDir)}
	}

	folderExclusion := toSet(cfg.FolderExclusion)
	fileExclusion := toSet(cfg.FileExclusion)

	tasks := make([]UploadTask, 0)
	walkErr := filepath.Walk(cfg.UploadDir, func(path string, f os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if f.IsDir() {
			if _, excluded := folderExclusion[f.Name()]; excluded {
				log.Info(fmt.Sprintf("Skipping '%s' honoring folder exclusion", path))
				return filepath.SkipDir
			}
			return nil
		}
		if _, excluded := fileExclusion[f.Name()]; excluded {
			log.Info(fmt.Sprintf("Skipping '%s' honoring file exclusion", f.Name()))
			return nil
		}
		if cfg.SkipDotFiles && strings.HasPrefix(f.Name(), ".") {
			log.Info(fmt.Sprintf("Skipping dot file: %s", f.Name()))
			return nil
		}
		tasks = append(tasks, UploadTask{
			LocalPath: path,
			ObjectKey: deriveKey(path, cfg.ExcludePrefix, cfg.S3Prefix),
			Size:      f.Size(),
		})
		return nil
	})
	if walkErr != nil {
		return tasks, fmt.Errorf("error walking local directory: %w", walkErr)
	}

	return tasks, nil
}

// filesize stats a file for its current byte size. Files that vanish
// mid-run count as zero bytes; the failure is logged, never raised.
func filesize(path string) int64 {
	info, statErr := os.Stat(path)
	if statErr != nil {
		log.Error(statErr)
		return 0
	}
	return info.Size()
}
