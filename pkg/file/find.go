package file

import (
	"os"
	"path/filepath"
	"time"
)

func FindRecentAfter(dir string, startTime time.Time) ([]string, error) {
	var recentFiles []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo,
		err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && info.ModTime().After(startTime) {
			recentFiles = append(recentFiles, path)
		}
		return nil
	})

	return recentFiles, err
}

// FindWithExt walks dir and returns every regular file matching one of exts.
func FindWithExt(dir string, exts ...string) ([]string, error) {
	var found []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo,
		err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && HasExt(path, exts...) {
			found = append(found, path)
		}
		return nil
	})

	return found, err
}
