// Package genelist reads and validates newline-delimited gene identifier lists.
package genelist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gokea/domain/core"
	"gokea/internal/errors"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._\-/:@]*$`)

// LineError reports an identifier that failed validation and where.
type LineError struct {
	Line  int // 1-based
	Token string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s at line %d is not a valid gene symbol", e.Token, e.Line)
}

func (e *LineError) Unwrap() error {
	return core.ErrInvalidIdentifier
}

// Validate returns the identifiers in lines, skipping blank lines and lines
// starting with '#'. The first invalid line aborts with an INVALID_INPUT
// error wrapping a *LineError; a list with no identifiers aborts with
// core.ErrEmptyInput.
func Validate(lines []string) ([]string, error) {
	tokens := make([]string, 0, len(lines))
	for i, line := range lines {
		token := strings.TrimSpace(line)
		if token == "" || strings.HasPrefix(token, "#") {
			continue
		}
		if !identifierPattern.MatchString(token) {
			return nil, errors.InvalidInput("invalid input", &LineError{Line: i + 1, Token: token})
		}
		tokens = append(tokens, token)
	}
	if len(tokens) == 0 {
		return nil, errors.InvalidInput("invalid input", core.ErrEmptyInput)
	}
	return tokens, nil
}

// Read validates the lines of r
func Read(r io.Reader) ([]string, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	return Validate(lines)
}

// ReadFile validates a text gene list on disk
func ReadFile(path string) ([]string, error) {
	lines, err := NewFileReader(path).ReadLines()
	if err != nil {
		return nil, err
	}
	return Validate(lines)
}

// FileReader reads the raw lines of a text gene list
type FileReader struct {
	path string
}

// NewFileReader creates a reader for path
func NewFileReader(path string) *FileReader {
	return &FileReader{path: path}
}

// ReadLines returns every line of the file, unvalidated
func (r *FileReader) ReadLines() ([]string, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, errors.InvalidInput("failed to open gene list", err)
	}
	defer f.Close()
	return readLines(f)
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read gene list")
	}
	return lines, nil
}
