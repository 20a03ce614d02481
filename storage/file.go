package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/etnz/passbook"
)

// dir is the common part of the stores keeping one file per destination.
type dir struct {
	root string
	ext  string // extension of the files, including the dot
}

func (d dir) path(destination string) (string, error) {
	if err := passbook.ValidateDestination(destination); err != nil {
		return "", err
	}
	return filepath.Join(d.root, destination+d.ext), nil
}

// write calls encode with a temporary file, and renames it into place once
// encode succeeded, so a failed save never damages a previous one.
func (d dir) write(destination string, encode func(io.Writer) error) error {
	path, err := d.path(destination)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	f, err := os.CreateTemp(d.root, "."+destination+"-*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := encode(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// read opens the file of destination and calls decode with it.
func (d dir) read(destination string, decode func(io.Reader) error) error {
	path, err := d.path(destination)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return notFound(destination)
	}
	if err != nil {
		return err
	}
	defer f.Close()
	return decode(f)
}

// destinations lists the destinations saved in the directory, sorted.
func (d dir) destinations() ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), d.ext)
		if e.IsDir() || !ok || strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
