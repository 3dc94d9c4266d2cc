package scanner

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadURLs reads one target per line from filePath, or from stdin when
// filePath is "-".
func LoadURLs(filePath string) ([]string, error) {
	if filePath == "-" {
		return ReadURLs(os.Stdin)
	}
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open target list %q: %w", filePath, err)
	}
	defer file.Close()
	return ReadURLs(file)
}

// ReadURLs returns the non-empty lines of r, skipping lines starting with '#'.
func ReadURLs(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var urls []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("target list read error: %w", err)
	}
	return urls, nil
}
