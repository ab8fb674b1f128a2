// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text
// files. Each file in the directory represents one secret: the filename is the
// key name and the file contents (trimmed) are the value.
//
// Supported key files: ncbi-api-key, ncbi-email, gemini-api-key, database-url.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store holds loaded secrets keyed by file name.
type Store map[string]string

// Load reads all files in dir and returns their trimmed contents keyed by
// filename. A missing directory or missing files are not errors; Load returns
// an empty Store. Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Store)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", entry.Name(), err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			s[entry.Name()] = value
		}
	}

	return s, nil
}

// Resolve returns the first non-empty value among: the explicit value (flag or
// config), the environment variable envKey, and the secret file named key.
func (s Store) Resolve(explicit, envKey, key string) string {
	if explicit != "" {
		return explicit
	}
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return s[key]
}
