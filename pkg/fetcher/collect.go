package fetcher

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// CollectURLs reads one URL per line from r until a blank line or the end of
// input. Lines are trimmed and kept in order. prompt, when not nil, is called
// before every read.
func CollectURLs(r io.Reader, prompt func()) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var urls []string
	for {
		if prompt != nil {
			prompt()
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}
		urls = append(urls, line)
	}

	if err := scanner.Err(); err != nil {
		return urls, fmt.Errorf("failed to read URLs: %w", err)
	}

	return urls, nil
}
