// Package store persists collector payloads: the latest snapshot, the per-day archive
// and the index of archived dates.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/spf13/afero"

	"github.com/joolab/newswire/pkg/domain"
)

// DateLayout is the archive and index date format
const DateLayout = "2006-01-02"

var (
	archiveNameRe       = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\.json$`)
	legacyArchiveNameRe = regexp.MustCompile(`^(\d{8})\.json$`)
)

// RSSRenderer renders the payload as an rss document
type RSSRenderer interface {
	GenerateRSS(payload domain.Payload) (string, error)
}

// Writer owns the output directory
type Writer struct {
	fs         afero.Fs
	dir        string
	latest     string
	index      string
	archiveDir string
	rss        string
	retention  int
	renderer   RSSRenderer
}

// Params holds Writer configuration. Latest, Index, RSS and ArchiveDir are relative to Dir.
type Params struct {
	Fs         afero.Fs // defaults to the os filesystem
	Dir        string
	Latest     string
	Index      string
	ArchiveDir string
	RSS        string // rss file name, empty disables rss output
	Retention  int    // max dates kept in the index
	Renderer   RSSRenderer
}

// New makes a Writer
func New(params Params) *Writer {
	res := &Writer{
		fs:         params.Fs,
		dir:        params.Dir,
		latest:     filepath.Join(params.Dir, params.Latest),
		index:      filepath.Join(params.Dir, params.Index),
		archiveDir: filepath.Join(params.Dir, params.ArchiveDir),
		retention:  params.Retention,
		renderer:   params.Renderer,
	}
	if res.fs == nil {
		res.fs = afero.NewOsFs()
	}
	if params.RSS != "" && params.Renderer != nil {
		res.rss = filepath.Join(params.Dir, params.RSS)
	}
	return res
}

// Persist writes latest, rss, the archive for day and the date index, in this order.
// The index is updated last so it never lists a date without an archive.
func (w *Writer) Persist(payload domain.Payload, day time.Time) error {
	if err := w.fs.MkdirAll(w.archiveDir, 0o755); err != nil {
		return fmt.Errorf("create output dirs: %w", err)
	}

	if err := writeJSON(w.fs, w.latest, payload); err != nil {
		return fmt.Errorf("write latest: %w", err)
	}

	if w.rss != "" {
		if err := w.writeRSS(payload); err != nil {
			lgr.Printf("[WARN] %v", err)
		}
	}

	date := day.Format(DateLayout)
	if err := writeJSON(w.fs, w.archivePath(date), payload.Archive(date)); err != nil {
		return fmt.Errorf("write archive %s: %w", date, err)
	}

	if err := w.updateIndex(date, payload.UpdatedAt); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	lgr.Printf("[DEBUG] persisted %d items to %s, archive %s", payload.Count, w.dir, date)
	return nil
}

// WriteDegraded writes the payload to latest only. The index is created empty if absent
// and left untouched otherwise.
func (w *Writer) WriteDegraded(payload domain.Payload) error {
	if err := w.fs.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := writeJSON(w.fs, w.latest, payload); err != nil {
		return fmt.Errorf("write latest: %w", err)
	}

	exists, err := afero.Exists(w.fs, w.index)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if !exists {
		if err := writeJSON(w.fs, w.index, domain.DateIndex{UpdatedAt: payload.UpdatedAt, Dates: []string{}}); err != nil {
			return fmt.Errorf("write index: %w", err)
		}
	}
	return nil
}

func (w *Writer) archivePath(date string) string {
	return filepath.Join(w.archiveDir, date+".json")
}

func (w *Writer) writeRSS(payload domain.Payload) error {
	doc, err := w.renderer.GenerateRSS(payload)
	if err != nil {
		return fmt.Errorf("render rss: %w", err)
	}
	if err := AtomicWrite(w.fs, w.rss, []byte(doc)); err != nil {
		return fmt.Errorf("write rss: %w", err)
	}
	return nil
}

// updateIndex adds date to the index. A missing, corrupt or legacy index is rebuilt from the archive directory.
func (w *Writer) updateIndex(date, updatedAt string) error {
	dates, ok := w.loadDates()
	if !ok {
		dates = w.scanArchive()
	}

	idx := domain.DateIndex{UpdatedAt: updatedAt, Dates: mergeDates(dates, date, w.retention)}
	return writeJSON(w.fs, w.index, idx)
}

// loadDates reads dates from the current index, ok is false if the index can't be used
func (w *Writer) loadDates() (dates []string, ok bool) {
	data, err := afero.ReadFile(w.fs, w.index)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			lgr.Printf("[WARN] can't read index %s, rebuilding from archive: %v", w.index, err)
		}
		return nil, false
	}

	var idx domain.DateIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		lgr.Printf("[WARN] corrupted index %s, rebuilding from archive: %v", w.index, err)
		return nil, false
	}
	if idx.Dates == nil {
		lgr.Printf("[INFO] index %s has no dates list, rebuilding from archive", w.index)
		return nil, false
	}
	return idx.Dates, true
}

// scanArchive lists archived dates, both current and legacy compact file names
func (w *Writer) scanArchive() []string {
	infos, err := afero.ReadDir(w.fs, w.archiveDir)
	if err != nil {
		lgr.Printf("[WARN] can't list archive %s: %v", w.archiveDir, err)
		return []string{}
	}

	res := []string{}
	for _, fi := range infos {
		if fi.IsDir() {
			continue
		}
		if m := archiveNameRe.FindStringSubmatch(fi.Name()); m != nil {
			res = append(res, m[1])
			continue
		}
		if m := legacyArchiveNameRe.FindStringSubmatch(fi.Name()); m != nil {
			if t, err := time.Parse("20060102", m[1]); err == nil {
				res = append(res, t.Format(DateLayout))
			}
		}
	}
	return res
}

// mergeDates adds date to dates and returns valid unique dates, most recent first, at most limit of them
func mergeDates(dates []string, date string, limit int) []string {
	seen := map[string]bool{}
	res := make([]string, 0, len(dates)+1)
	for _, d := range append([]string{date}, dates...) {
		if seen[d] {
			continue
		}
		if _, err := time.Parse(DateLayout, d); err != nil {
			continue
		}
		seen[d] = true
		res = append(res, d)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(res)))
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res
}
