//go:build windows

package storage

import (
	"os"
	"path/filepath"
)

func platformConfigDefault() string {
	return filepath.Join(os.Getenv("APPDATA"), "doc-suggester")
}

func platformDataDefault() string {
	return filepath.Join(os.Getenv("LOCALAPPDATA"), "doc-suggester")
}

func platformCacheDefault() string {
	return filepath.Join(os.Getenv("LOCALAPPDATA"), "doc-suggester", "cache")
}
