package validation

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/username/volumebets/backend/src/logger"
)

// ErrValidationFailed marks an upload rejected before parsing.
var ErrValidationFailed = errors.New("upload validation failed")

// AllowedClientContentTypes lists the client-declared MIME types accepted for a bet export.
var AllowedClientContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"application/vnd.ms-excel": true, // Excel labels CSV this way
	"text/plain":               true,
	"application/octet-stream": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": false,
}

// AllowedExtensions lists the file extensions accepted for a bet export.
var AllowedExtensions = map[string]bool{
	".csv": true,
	".txt": true,
}

var allowedDetectedTypes = map[string]bool{
	"text/plain":               true,
	"text/csv":                 true,
	"application/csv":          true,
	"application/octet-stream": true,
}

// ValidateClientContentType checks the Content-Type the client declared for the file part.
// An empty value is accepted since some clients omit it.
func ValidateClientContentType(contentType string) error {
	if contentType == "" {
		return nil
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if allowed, exists := AllowedClientContentTypes[mediaType]; !exists || !allowed {
		logger.L.Warn("Disallowed client-declared Content-Type", "contentType", contentType)
		return fmt.Errorf("%w: file type '%s' is not allowed for a bet export", ErrValidationFailed, contentType)
	}
	return nil
}

// ValidateFilename checks the uploaded file's extension.
func ValidateFilename(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !AllowedExtensions[ext] {
		return fmt.Errorf("%w: file '%s' must be a .csv export", ErrValidationFailed, name)
	}
	return nil
}

// ValidateUploadSize rejects files above limit, reporting both sizes in readable units.
func ValidateUploadSize(size, limit int64) error {
	if size > limit {
		return fmt.Errorf("%w: file is %s, the limit is %s", ErrValidationFailed,
			humanize.IBytes(uint64(size)), humanize.IBytes(uint64(limit)))
	}
	return nil
}

// ValidateFileContentByMagicBytes sniffs the first 512 bytes and rewinds the file.
// It returns the detected content type.
func ValidateFileContentByMagicBytes(file io.ReadSeeker) (string, error) {
	if file == nil {
		return "", fmt.Errorf("%w: file is nil", ErrValidationFailed)
	}

	buffer := make([]byte, 512)
	n, err := io.ReadFull(file, buffer)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("failed to read file for content type checking: %w", err)
	}

	// The parser needs the whole file, so rewind before returning.
	if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
		return "", fmt.Errorf("failed to reset file read pointer: %w", seekErr)
	}

	if n == 0 {
		return "", fmt.Errorf("%w: file is empty", ErrValidationFailed)
	}

	detectedContentType := http.DetectContentType(buffer[:n])
	detectedContentType = strings.ToLower(strings.Split(detectedContentType, ";")[0])

	if !allowedDetectedTypes[detectedContentType] {
		logger.L.Warn("Disallowed detected file content type (magic bytes)", "detectedContentType", detectedContentType)
		return detectedContentType, fmt.Errorf("%w: detected content type '%s' is not consistent with a CSV file", ErrValidationFailed, detectedContentType)
	}

	logger.L.Debug("File content type (magic bytes) validated", "detectedContentType", detectedContentType)
	return detectedContentType, nil
}
