package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ExampleFile is the name of the first persona ever written, kept as a sample.
const ExampleFile = "EXAMPLE_persona.txt"

// ErrInvalidName is returned when a username would escape the output directory.
var ErrInvalidName = errors.New("invalid persona file name")

// Store persists rendered persona documents as flat text files.
type Store struct {
	dir        string
	readmePath string
}

// Open returns a Store writing into dir, creating it when needed. readmePath
// is the summary file refreshed alongside the first example; empty disables it.
func Open(dir, readmePath string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Store{dir: dir, readmePath: readmePath}, nil
}

// Dir returns the output directory.
func (s *Store) Dir() string { return s.dir }

// PersonaPath returns the file a persona for username is written to.
func (s *Store) PersonaPath(username string) string {
	return filepath.Join(s.dir, username+"_persona.txt")
}

// SavePersona writes doc for username, replacing any earlier file. When no
// example exists yet the document is also copied to ExampleFile and the
// readme is rewritten; exampleCreated reports whether that happened.
func (s *Store) SavePersona(username, doc string) (path string, exampleCreated bool, err error) {
	if username == "" || strings.ContainsAny(username, `/\`) || username == "." || username == ".." {
		return "", false, fmt.Errorf("%w: %q", ErrInvalidName, username)
	}

	path = s.PersonaPath(username)
	if err := writeFile(path, doc); err != nil {
		return "", false, fmt.Errorf("writing persona: %w", err)
	}

	example := filepath.Join(s.dir, ExampleFile)
	if _, err := os.Stat(example); err == nil {
		return path, false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return path, false, fmt.Errorf("checking example: %w", err)
	}

	if err := writeFile(example, doc); err != nil {
		return path, false, fmt.Errorf("writing example: %w", err)
	}
	if s.readmePath != "" {
		if err := writeFile(s.readmePath, readmeSummary(username, doc, s.dir)); err != nil {
			return path, true, fmt.Errorf("writing readme: %w", err)
		}
	}
	return path, true, nil
}

// LoadPersona reads back the stored document for username.
func (s *Store) LoadPersona(username string) (string, error) {
	b, err := os.ReadFile(s.PersonaPath(username))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("reading persona: %w", err)
	}
	return string(b), nil
}

// ListPersonas returns the usernames with a stored persona, sorted by name.
// The example copy is not included.
func (s *Store) ListPersonas() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*_persona.txt"))
	if err != nil {
		return nil, fmt.Errorf("listing personas: %w", err)
	}
	var names []string
	for _, m := range matches {
		base := filepath.Base(m)
		if base == ExampleFile {
			continue
		}
		names = append(names, strings.TrimSuffix(base, "_persona.txt"))
	}
	slices.Sort(names)
	return names, nil
}

// writeFile replaces path atomically so a failed write never leaves a
// truncated document behind.
func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".persona-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func readmeSummary(username, doc, dir string) string {
	var b strings.Builder
	b.WriteString("# Reddit Persona Generator\n\n")
	b.WriteString("## Example Output\n\n")
	b.WriteString(doc)
	if !strings.HasSuffix(doc, "\n") {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n> Generated from analysis of u/%s\n", username)
	fmt.Fprintf(&b, "> Full personas available in the `%s/` directory\n", filepath.ToSlash(dir))
	return b.String()
}
