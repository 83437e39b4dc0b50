package misc

import (
	"errors"
	"fmt"
	"os"
)

// CreateFile opens fileName for writing, truncating anything already there. The directory must already exist; missing
// directories are reported rather than created so a mistyped capture path is noticed.
func CreateFile(fileName string) (*os.File, error) {
	if fileName == "" {
		return nil, errors.New("no filename supplied")
	}
	file, err := os.Create(fileName)
	if err != nil {
		return nil, fmt.Errorf("unable to create file %s - %w", fileName, err)
	}
	return file, nil
}

// CloseFile closes file and, when writeErr is set, removes the partially written file. The first error encountered is
// returned.
func CloseFile(file *os.File, writeErr error) error {
	closeErr := file.Close()
	if writeErr != nil {
		// the file is useless after a failed write
		_ = os.Remove(file.Name())
		return fmt.Errorf("unable to write file %s - %w", file.Name(), writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("unable to close file %s - %w", file.Name(), closeErr)
	}
	return nil
}

// IsDirectory reports whether path exists and is a directory.
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
