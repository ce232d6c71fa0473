package question

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseFile reads the question file at path. The ID is path relative to root.
func ParseFile(root, path string) (*Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question file: %w", err)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return nil, fmt.Errorf("question id for %s: %w", path, err)
	}
	q, err := parse(filepath.ToSlash(rel), path, data)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// Parse reads a question from r. Line 1 is the correctness mask, line 2 the
// prompt, and every following non-empty line an option.
func Parse(id string, r io.Reader) (*Question, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read question %s: %w", id, err)
	}
	return parse(id, id, data)
}

func parse(id, path string, data []byte) (*Question, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	text := strings.ToValidUTF8(string(data), "\uFFFD")
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	// A trailing newline yields an empty last element.
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) < 2 {
		return nil, &MalformedError{Path: path, Reason: "need a mask line and a question line"}
	}

	mask, err := parseMask(lines[0])
	if err != nil {
		return nil, &MalformedError{Path: path, Reason: err.Error()}
	}

	var options []string
	for _, line := range lines[2:] {
		line = strings.TrimSpace(line)
		if line == "" || isImageTag(line) {
			continue
		}
		options = append(options, line)
	}
	if len(options) != len(mask) {
		return nil, &MalformedError{
			Path:   path,
			Reason: fmt.Sprintf("mask has %d entries but %d options follow", len(mask), len(options)),
		}
	}

	return &Question{
		ID:      id,
		Path:    path,
		Mask:    mask,
		Text:    promptText(lines[1]),
		Options: options,
	}, nil
}

func parseMask(line string) ([]bool, error) {
	line = strings.Join(strings.Fields(line), "")
	line = strings.Trim(line, "Xx")
	if line == "" {
		return nil, fmt.Errorf("empty mask")
	}
	// An all-zero mask is allowed: the answer is "none of them".
	mask := make([]bool, 0, len(line))
	for _, r := range line {
		switch r {
		case '0':
			mask = append(mask, false)
		case '1':
			mask = append(mask, true)
		default:
			return nil, fmt.Errorf("mask character %q is not 0 or 1", r)
		}
	}
	return mask, nil
}

// promptText trims the question line. Files often end the question with
// " ?"; the space before the mark is dropped.
func promptText(line string) string {
	text := strings.TrimSpace(line)
	if trimmed := strings.TrimRight(text, " \t?"); trimmed != text && strings.HasSuffix(text, "?") {
		return trimmed + "?"
	}
	return text
}

func isImageTag(line string) bool {
	lower := strings.ToLower(line)
	return strings.HasPrefix(lower, "[img]") && strings.HasSuffix(lower, "[/img]")
}
