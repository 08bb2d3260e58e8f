// Package lesson loads practice entries from lesson files.
package lesson

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadEntries reads one raw entry per line from the provided file path.
// Blank lines and lines starting with "#" are skipped.
func LoadEntries(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only lesson file.
			_ = cerr
		}
	}()

	var entries []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("lesson is empty")
	}
	return entries, nil
}
