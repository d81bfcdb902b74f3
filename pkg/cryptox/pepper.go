package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Configuration for Argon2id hashing.
const (
	memory      = 19 * 1024 // Memory usage in KiB (19 MiB)
	iterations  = 2         // Iteration count
	parallelism = 1         // Number of threads
	keyLength   = 32        // Length of the generated hash
	saltLength  = 16        // Length of the salt
)

// LoadOrGeneratePepper reads the pepper stored at path, creating the file
// with a fresh random pepper when it does not exist yet. Losing the file
// invalidates every argon2id hash made with it.
func LoadOrGeneratePepper(path string) (string, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return "", fmt.Errorf("pepper dir: %w", err)
	}

	b, err := os.ReadFile(path)
	if err == nil {
		pepper := strings.TrimSpace(string(b))
		if pepper == "" {
			return "", fmt.Errorf("pepper file %s is empty", path)
		}
		return pepper, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("read pepper: %w", err)
	}

	// Generate a new pepper and save it to the file
	pepperBytes := make([]byte, keyLength)
	if _, err := rand.Read(pepperBytes); err != nil {
		return "", err
	}
	pepper := base64.RawURLEncoding.EncodeToString(pepperBytes)

	if err := os.WriteFile(path, []byte(pepper), 0600); err != nil {
		return "", fmt.Errorf("write pepper: %w", err)
	}
	return pepper, nil
}
