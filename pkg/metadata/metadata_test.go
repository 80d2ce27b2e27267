package metadata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDumpVersion(t *testing.T) {
	assert.Equal(t, "2025-01-osm-dump", DumpVersion("2025-01-scan-config"))
	assert.Equal(t, "v3", DumpVersion("v3"))
}

func TestGeneratedAt(t *testing.T) {
	zone := time.FixedZone("CET", 3600)
	ts := time.Date(2026, 3, 1, 9, 30, 15, 987654321, zone)

	assert.Equal(t, "2026-03-01T09:30:15+01:00", GeneratedAt(ts))
	assert.Equal(t, "2026-03-01", RunDate(ts))
}

func TestIsCalendarDate(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2024-02-29", true},
		{"2025-12-31", true},
		{"2024-13-40", false},
		{"2023-02-29", false},
		{"2024-04-31", false},
		{"2024-1-05", false},
		{"24-01-05", false},
		{"2024/01/05", false},
		{"2024-01-05T00:00:00Z", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCalendarDate(tt.in))
		})
	}
}

func TestCalculateHash(t *testing.T) {
	a := CalculateHash([]byte(`{"items":[]}`))
	b := CalculateHash([]byte(`{"items":[]}`))
	c := CalculateHash([]byte(`{"items":[1]}`))

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
