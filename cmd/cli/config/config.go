// Package config holds the CLI's API location and stored session token.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultAPIURL = "http://localhost:5000"
	tokenFileName = ".fintrack_token"
)

var apiURLOverride string

// SetAPIURL overrides the API base URL for this process (the --api-url flag).
func SetAPIURL(u string) {
	apiURLOverride = u
}

// APIURL returns the base URL of the fintrack API: --api-url, then the
// FINTRACK_API_URL environment variable, then http://localhost:5000.
func APIURL() string {
	u := defaultAPIURL
	if v := os.Getenv("FINTRACK_API_URL"); v != "" {
		u = v
	}
	if apiURLOverride != "" {
		u = apiURLOverride
	}
	return strings.TrimRight(u, "/")
}

// TokenPath is where the session token is kept: ~/.fintrack_token.
func TokenPath() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, tokenFileName)
}

// SaveToken writes token readable only by the current user.
func SaveToken(token string) error {
	return os.WriteFile(TokenPath(), []byte(token), 0600)
}

// ErrNotLoggedIn is returned by LoadToken when no token is stored.
var ErrNotLoggedIn = errors.New("not logged in: run `fintrack login` first")

// LoadToken returns the stored token.
func LoadToken() (string, error) {
	data, err := os.ReadFile(TokenPath())
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotLoggedIn
	}
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNotLoggedIn
	}
	return token, nil
}

// RemoveToken deletes the stored token. It reports whether one existed.
func RemoveToken() (bool, error) {
	err := os.Remove(TokenPath())
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}
