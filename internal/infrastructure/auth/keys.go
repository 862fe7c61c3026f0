package auth

import (
	"bytes"
	"fmt"
	"os"
)

// MinSecretLength is the shortest HS256 secret accepted (256 bits).
const MinSecretLength = 32

// ValidateSecret rejects missing or short signing secrets.
func ValidateSecret(secret []byte) error {
	if len(secret) == 0 {
		return fmt.Errorf("jwt signing secret is not configured")
	}
	if len(secret) < MinSecretLength {
		return fmt.Errorf("jwt signing secret must be at least %d bytes, got %d", MinSecretLength, len(secret))
	}
	return nil
}

// LoadSecret returns the inline secret, or the trimmed contents of path when inline is empty.
func LoadSecret(inline, path string) ([]byte, error) {
	if inline != "" {
		return []byte(inline), nil
	}
	if path == "" {
		return nil, fmt.Errorf("JWT_SECRET or JWT_SECRET_FILE is required")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jwt secret file: %w", err)
	}
	return bytes.TrimSpace(b), nil
}
