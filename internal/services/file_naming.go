package services

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	safeASCIIName = regexp.MustCompile(`^[a-zA-Z0-9._ -]+$`)
	unsafeChars   = regexp.MustCompile(`[<>:"|?*\x00-\x1f/\\]`)
	squeezeRuns   = regexp.MustCompile(`[ _]+`)
)

const maxSanitizedNameLen = 200

// sanitizeFileName converts a display name into a storage-path-safe token.
// ASCII names are lightly normalized; anything containing other runes is
// base64url-encoded so the original is recoverable and the path stays ASCII.
// The extension is always preserved (lowercased).
func sanitizeFileName(filename string) string {
	if filename == "" {
		return "file"
	}

	base := filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(base))
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		name = "file"
	}

	var sanitized string
	if safeASCIIName.MatchString(name) {
		sanitized = unsafeChars.ReplaceAllString(name, "_")
		sanitized = squeezeRuns.ReplaceAllString(sanitized, "_")
		sanitized = strings.Trim(sanitized, "._")
		if sanitized == "" {
			sanitized = "file"
		}
	} else {
		sanitized = base64.RawURLEncoding.EncodeToString([]byte(name))
	}

	if len(sanitized) > maxSanitizedNameLen {
		sanitized = sanitized[:maxSanitizedNameLen]
	}
	return sanitized + ext
}

// copyDisplayName inserts " (copy)" before the extension.
func copyDisplayName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + " (copy)" + ext
}

// buildStoragePath derives the opaque blob path for a file. Keying by
// owner/folder/timestamp keeps paths collision-free without a uniqueness
// constraint on the storage side.
func buildStoragePath(ownerID uuid.UUID, folderID *uuid.UUID, displayName string) string {
	folderPart := "root"
	if folderID != nil {
		folderPart = folderID.String()
	}
	return fmt.Sprintf("%s/%s/%d_%s",
		ownerID, folderPart, time.Now().UnixMilli(), sanitizeFileName(displayName))
}

// resolveMimeType forces the PDF content type when the extension says so.
// Browsers refuse to preview PDFs served as octet-stream.
func resolveMimeType(displayName, contentType string) string {
	if strings.HasSuffix(strings.ToLower(displayName), ".pdf") {
		return "application/pdf"
	}
	if contentType == "" {
		return "application/octet-stream"
	}
	return contentType
}
