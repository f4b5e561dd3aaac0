package config

import (
	"os"
	"path/filepath"
)

// ConfigFileName is the name of the sidecar config file.
const ConfigFileName = ".changelogger.yml"

// SearchPaths returns the candidate config locations under root in the order
// they are tried: the repository root, then .changelogger/, then .github/.
func SearchPaths(root string) []string {
	return []string{
		filepath.Join(root, ConfigFileName),
		filepath.Join(root, ".changelogger", ConfigFileName),
		filepath.Join(root, ".github", ConfigFileName),
	}
}

// FindConfigFile returns the first existing config file under root, or ""
// when none exists.
func FindConfigFile(root string) string {
	for _, path := range SearchPaths(root) {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
