/*
tier_file.go - JSON-file tiers in user directories

One document per file under a private app directory. Two standard
placements mirror the platform storage ladder: the data directory
(durable) and the cache directory (evictable). Paths come from the XDG
base-directory lookup so the tier works unconfigured on any desktop or
server account.
*/
package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appDirName = "verse-engine"

// File stores each document as <dir>/<doc>.json.
type File struct {
	name string
	dir  string
}

// NewFile builds a file tier rooted at an explicit directory.
func NewFile(name, dir string) *File {
	return &File{name: name, dir: dir}
}

// NewDataFile places documents in the XDG data home.
func NewDataFile() *File {
	return NewFile("data-file", filepath.Join(xdg.DataHome, appDirName))
}

// NewCacheFile places documents in the XDG cache home.
func NewCacheFile() *File {
	return NewFile("cache-file", filepath.Join(xdg.CacheHome, appDirName))
}

func (f *File) Name() string { return f.name }

func (f *File) path(doc string) string {
	return filepath.Join(f.dir, doc+".json")
}

func (f *File) Read(_ context.Context, doc string) ([]byte, error) {
	data, err := os.ReadFile(f.path(doc))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (f *File) Write(_ context.Context, doc string, data []byte) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return err
	}
	// Write-then-rename keeps a reader from seeing a torn document.
	tmp := f.path(doc) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path(doc))
}

func (f *File) Delete(_ context.Context, doc string) error {
	err := os.Remove(f.path(doc))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
