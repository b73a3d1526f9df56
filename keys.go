package main

import (
	"os"
	"strings"
)

// deriveKey maps a local file path to its remote object key. The same
// (path, excludePrefix, s3Prefix) triple always yields the same key:
// the scanner and the metadata reporter derive keys independently and
// must agree.
func deriveKey(localPath, excludePrefix, s3Prefix string) string {
	relativePath := localPath
	if excludePrefix != "" {
		relativePath = strings.TrimPrefix(localPath, excludePrefix)
	}

	separator := string(os.PathSeparator)
	parts := make([]string, 0)
	if s3Prefix != "" {
		if strings.Contains(s3Prefix, separator) {
			parts = append(parts, strings.Split(s3Prefix, separator)...)
		} else {
			parts = append(parts, strings.Split(s3Prefix, "/")...)
		}
	}
	parts = append(parts, strings.Split(relativePath, separator)...)

	// Segments never contribute empty strings or doubled separators.
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Trim(part, "/")
		if part == "" {
			continue
		}
		segments = append(segments, part)
	}

	return strings.Join(segments, "/")
}
