// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads the Azure DevOps personal access token (PAT).
// The token comes from an explicit file, or from a directory of plain-text
// files where the filename is the key name and the trimmed contents are the
// value.
//
// Supported key files: azure-devops-pat.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// PATKey is the secrets directory entry holding the Azure DevOps token.
const PATKey = "azure-devops-pat"

// ErrEmptyPAT is returned when a PAT file exists but holds only whitespace.
var ErrEmptyPAT = errors.New("personal access token is empty")

// ErrNoPAT is returned by ResolvePAT when neither source provides a token.
var ErrNoPAT = errors.New("no personal access token: pass --pat-file or create .secrets/" + PATKey)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged as warnings but do not abort.
func Load(dir string, logger *zap.Logger) (map[string]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// ReadPAT reads a personal access token from path, trimming surrounding
// whitespace and the trailing newline editors add.
func ReadPAT(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading PAT from %s: %w", path, err)
	}
	pat := strings.TrimSpace(string(data))
	if pat == "" {
		return "", fmt.Errorf("reading PAT from %s: %w", path, ErrEmptyPAT)
	}
	return pat, nil
}

// ResolvePAT returns the token from patFile when set, otherwise the
// PATKey entry of loaded.
func ResolvePAT(patFile string, loaded map[string]string) (string, error) {
	if patFile != "" {
		return ReadPAT(patFile)
	}
	if pat, ok := loaded[PATKey]; ok {
		return pat, nil
	}
	return "", ErrNoPAT
}
