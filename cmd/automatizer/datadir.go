// ABOUTME: XDG-based config directory resolution for the automatizer CLI.
// ABOUTME: Checks XDG_CONFIG_HOME, falls back to ~/.config/automatizer.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultConfigDir returns the directory holding config.yaml.
func defaultConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "automatizer"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "automatizer"), nil
}

// defaultConfigPath is config.yaml inside defaultConfigDir.
func defaultConfigPath() (string, error) {
	dir, err := defaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
