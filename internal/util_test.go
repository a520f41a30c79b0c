package internal

import (
	"testing"
)

func TestRedactSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   string
	}{
		{"empty", "", ""},
		{"short secret is fully hidden", "abc", "***"},
		{"eight characters are fully hidden", "abcdefgh", "********"},
		{"long secret keeps its prefix", "llx-1234567890abcdef", "llx-********"},
		{"multibyte", "ключ-секретный", "ключ********"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RedactSecret(tt.secret); got != tt.want {
				t.Errorf("RedactSecret(%q) = %q, want %q", tt.secret, got, tt.want)
			}
		})
	}
}

func TestRedactSecretHidesLength(t *testing.T) {
	a := RedactSecret("llx-aaaaaaaaaaaa")
	b := RedactSecret("llx-bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	if a != b {
		t.Errorf("expected redacted secrets with the same prefix to be equal, got %q and %q", a, b)
	}
}

func TestValidateAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid key", "llx-abc123", false},
		{"empty", "", true},
		{"contains space", "llx abc", true},
		{"contains tab", "llx\tabc", true},
		{"trailing newline", "llx-abc\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAPIKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAPIKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}
