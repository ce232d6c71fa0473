package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const corruptSuffix = ".corrupt"

// Load reads dir's progress file. A missing file yields an empty store and a
// nil error. A file that cannot be parsed or fails validation yields an empty
// store and a *CorruptFileError; callers warn and carry on.
func Load(dir string) (*Store, error) {
	s := New(dir)
	p := Path(dir)

	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, &CorruptFileError{Path: p, Err: err}
	}

	records, err := decode(data)
	if err != nil {
		return s, &CorruptFileError{Path: p, Err: err}
	}
	s.records = records
	return s, nil
}

// Valid reports whether dir holds a progress file that Load accepts.
func Valid(dir string) bool {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return false
	}
	_, err = decode(data)
	return err == nil
}

// Backup moves a progress file aside to progress.json.corrupt so the next
// Save does not overwrite it. Returns the backup path.
func Backup(dir string) (string, error) {
	src := Path(dir)
	dst := src + corruptSuffix
	if err := os.Rename(src, dst); err != nil {
		return "", fmt.Errorf("back up progress file: %w", err)
	}
	return dst, nil
}

// Reset deletes dir's progress file. A missing file is not an error.
func Reset(dir string) error {
	err := os.Remove(Path(dir))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}

// Save writes the store atomically: a temp file in the same directory is
// synced and renamed over progress.json.
func (s *Store) Save() error {
	p := Path(s.dir)
	if err := s.write(p); err != nil {
		return &SaveError{Path: p, Err: err}
	}
	return nil
}

func (s *Store) write(p string) error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(p), "."+FileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// decode parses either layout and validates it.
func decode(data []byte) (map[string]Record, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top level is not an object")
	}

	if isLegacy(obj) {
		return decodeLegacy(data, doc)
	}

	schema, err := schemaFor(recordsSchemaURL)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	records := make(map[string]Record)
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	for id, r := range records {
		if r.Correct > r.Attempts {
			return nil, fmt.Errorf("%s: correct %d exceeds attempts %d", id, r.Correct, r.Attempts)
		}
	}
	return records, nil
}

// Question IDs end in .txt, so these keys never collide with the current layout.
func isLegacy(obj map[string]any) bool {
	for _, k := range []string{"stats", "correct", "incorrect"} {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

type legacyFile struct {
	Stats map[string]struct {
		Correct   int `json:"correct"`
		Incorrect int `json:"incorrect"`
	} `json:"stats"`
	Correct   []string `json:"correct"`
	Incorrect []string `json:"incorrect"`
}

// decodeLegacy converts correct/incorrect counters to attempts/correct.
// Files without a stats object fall back to the flat name lists.
func decodeLegacy(data []byte, doc any) (map[string]Record, error) {
	schema, err := schemaFor(legacySchemaURL)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("legacy schema validation failed: %w", err)
	}

	var lf legacyFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("decode legacy progress: %w", err)
	}

	records := make(map[string]Record)
	if lf.Stats != nil {
		for name, st := range lf.Stats {
			records[name] = Record{Attempts: st.Correct + st.Incorrect, Correct: st.Correct}
		}
		return records, nil
	}
	for _, name := range lf.Correct {
		r := records[name]
		r.Attempts++
		r.Correct++
		records[name] = r
	}
	for _, name := range lf.Incorrect {
		r := records[name]
		r.Attempts++
		records[name] = r
	}
	return records, nil
}
