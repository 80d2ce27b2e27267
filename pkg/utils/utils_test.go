package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHTTPURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://www.openstreetmap.org/node/1", true},
		{"http://example.com", true},
		{"HTTPS://EXAMPLE.COM/path", true},
		{"  https://example.com  ", true},
		{"INTERNAL:front-desk", false},
		{"ftp://example.com", false},
		{"www.example.com", false},
		{"https://", false},
		{"mailto:info@example.com", false},
		{"", false},
		{"https://exa mple.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHTTPURL(tt.in))
		})
	}
}

func TestHTTPHelper_BuildHeaders(t *testing.T) {
	h := NewHTTPHelper("")
	headers := h.BuildHeaders(map[string]string{"X-Run": "1"})

	assert.Equal(t, DefaultUserAgent, headers.Get("User-Agent"))
	assert.Equal(t, "1", headers.Get("X-Run"))

	custom := NewHTTPHelper("test-agent/2.0").BuildHeaders(nil)
	assert.Equal(t, "test-agent/2.0", custom.Get("User-Agent"))
}

func TestStringHelper_NormalizeText(t *testing.T) {
	s := NewStringHelper()

	decomposed := "Gasthof Bra\u0308u"
	assert.Equal(t, "Gasthof Br\u00e4u", s.NormalizeText(decomposed))
	assert.Equal(t, "Hotel Post", s.NormalizeText("  Hotel \t  Post \n"))
	assert.Equal(t, "", s.NormalizeText("   "))
}

func TestStringHelper_TruncateString(t *testing.T) {
	s := NewStringHelper()

	assert.Equal(t, "short", s.TruncateString("short", 10))
	assert.Equal(t, "abcdefg...", s.TruncateString("abcdefghijklmnop", 10))
	assert.LessOrEqual(t, s.Width(s.TruncateString("日本語のテキストです", 8)), 8)
}

func TestStringHelper_PadRight(t *testing.T) {
	s := NewStringHelper()

	assert.Equal(t, "ab   ", s.PadRight("ab", 5))
	assert.Equal(t, 6, s.Width(s.PadRight("日本", 6)))
}
