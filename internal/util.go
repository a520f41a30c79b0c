// Package internal provides internal utility functionality for the llamacloud-mcp server.
package internal

import (
	"errors"
	"strings"
	"unicode"
)

// redactKeep is the number of leading characters of a secret that are kept when it is redacted.
const redactKeep = 4

// RedactSecret hides a secret so that it can be logged.
// Only the first few characters are kept, which is enough to tell two keys apart.
func RedactSecret(secret string) string {
	if secret == "" {
		return ""
	}
	runes := []rune(secret)
	if len(runes) <= redactKeep*2 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:redactKeep]) + strings.Repeat("*", 8)
}

// ValidateAPIKey checks if a user-provided LlamaCloud API key is usable.
// It doesn't check the key against LlamaCloud, only that it can be sent in an HTTP header.
func ValidateAPIKey(key string) error {
	if key == "" {
		return errors.New("API key must not be empty")
	}
	if hasWhitespace(key) {
		return errors.New("API key should not contain whitespace characters")
	}
	return nil
}

// hasWhitespace checks if the string contains any whitespace characters.
func hasWhitespace(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			return true
		}
	}
	return false
}
