// Package metadata derives the generation metadata stamped into knowledge-base documents.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for last_verified_at and run dates.
const DateLayout = "2006-01-02"

const (
	configVersionMarker = "scan-config"
	dumpVersionMarker   = "osm-dump"
)

// DumpVersion derives the output document version from the scan config version,
// e.g. "2025-01-scan-config" becomes "2025-01-osm-dump".
func DumpVersion(configVersion string) string {
	return strings.ReplaceAll(configVersion, configVersionMarker, dumpVersionMarker)
}

// GeneratedAt formats t as RFC 3339 with second precision and its zone offset.
func GeneratedAt(t time.Time) string {
	return t.Truncate(time.Second).Format(time.RFC3339)
}

// RunDate formats t as a YYYY-MM-DD calendar date in t's location.
func RunDate(t time.Time) string {
	return t.Format(DateLayout)
}

// IsCalendarDate reports whether s is exactly YYYY-MM-DD and denotes a real date.
func IsCalendarDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}

	for i, r := range s {
		if i == 4 || i == 7 {
			if r != '-' {
				return false
			}

			continue
		}

		if r < '0' || r > '9' {
			return false
		}
	}

	_, err := time.Parse(DateLayout, s)

	return err == nil
}

// CalculateHash computes the SHA-256 hex digest of an encoded document.
func CalculateHash(content []byte) string {
	hash := sha256.Sum256(content)

	return hex.EncodeToString(hash[:])
}
