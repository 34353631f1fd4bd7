//go:build !windows

package storage

import (
	"os"
	"path/filepath"
)

func platformConfigDefault() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "doc-suggester")
}

func platformDataDefault() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "doc-suggester")
}

func platformCacheDefault() string {
	return filepath.Join(os.Getenv("HOME"), ".cache", "doc-suggester")
}
