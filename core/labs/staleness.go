package labs

import (
	"os"
	"time"
)

// Stale reports whether the catalog is missing or its modification time
// is older than staleDays.
func Stale(catalogPath string, staleDays int, now time.Time) bool {
	info, err := os.Stat(catalogPath)
	if err != nil {
		return true
	}
	age := now.Sub(info.ModTime())
	return int(age.Hours()/24) > staleDays
}
