package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineLength bounds a single scanned line
const maxLineLength = 1024 * 1024

// ReadLines reads every line of reader, trimming the trailing carriage return
// of CRLF files. Empty lines are kept so indices match the file.
func ReadLines(reader io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), maxLineLength)

	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}

	if err := scanner.Err(); err != nil {
		return lines, fmt.Errorf("scanner error: %w", err)
	}

	return lines, nil
}

// ParseReader reads all lines from reader and parses them in one pass
func ParseReader(reader io.Reader) (*ParseResult, error) {
	lines, err := ReadLines(reader)
	if err != nil {
		return nil, err
	}
	return Parse(lines)
}
