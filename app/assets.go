/*
assets.go - Bundled asset lookup

The seed chain reads three optional files shipped next to the binary:
seed.json, church_verses.xlsx and calendar_events.xlsx. AssetSource
abstracts where they come from so tests can hand the orchestrator a
temp directory.
*/
package app

import (
	"io"
	"os"
	"path/filepath"

	"github.com/grace/verse-engine/seed"
)

// Asset file names inside the asset directory.
const (
	SeedFileName             = "seed.json"
	VerseWorkbookFileName    = "church_verses.xlsx"
	CalendarWorkbookFileName = "calendar_events.xlsx"
)

// AssetSource supplies the optional bootstrap files. Every method may
// fail; the orchestrator treats failure as absence.
type AssetSource interface {
	Seed() (*seed.Document, error)
	VerseWorkbook() (io.ReadCloser, error)
	CalendarWorkbook() (io.ReadCloser, error)
}

// DirAssets reads assets from one directory.
type DirAssets struct {
	Dir string
}

func (d DirAssets) Seed() (*seed.Document, error) {
	return seed.Load(filepath.Join(d.Dir, SeedFileName))
}

func (d DirAssets) VerseWorkbook() (io.ReadCloser, error) {
	return os.Open(filepath.Join(d.Dir, VerseWorkbookFileName))
}

func (d DirAssets) CalendarWorkbook() (io.ReadCloser, error) {
	return os.Open(filepath.Join(d.Dir, CalendarWorkbookFileName))
}
