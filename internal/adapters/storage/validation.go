package storage

import (
	"fmt"
	"mime"
)

// MaxObjectSize caps archived objects at 50 MB.
const MaxObjectSize int64 = 50 << 20

// AllowedContentTypes defines the MIME types that may be archived.
var AllowedContentTypes = map[string]bool{
	"text/csv":   true,
	"text/plain": true,
}

// ValidateContentType checks the media type, ignoring parameters such as charset.
func ValidateContentType(contentType string) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !AllowedContentTypes[mediaType] {
		return fmt.Errorf("content type %q is not allowed", contentType)
	}
	return nil
}

// ValidateFileSize checks if the object size is within limits.
func ValidateFileSize(sizeBytes int64) error {
	if sizeBytes <= 0 {
		return fmt.Errorf("file size must be greater than 0")
	}
	if sizeBytes > MaxObjectSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size of %d bytes", sizeBytes, MaxObjectSize)
	}
	return nil
}
