package track

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is one track file scheduled for loading.
type Entry struct {
	Period int    // index of the period folder in sorted order
	Folder string // period folder name
	Path   string
	Name   string // file name, used as the record's source label
}

// Manifest is the ordered list of files to load: period folders in sorted
// name order, then files in sorted name order within each folder.
type Manifest struct {
	Root    string
	Periods []string
	Entries []Entry
}

// BuildManifest scans root's immediate subfolders for files whose extension
// is in exts (case-insensitive). Folders with no matching file still occupy
// a period index.
func BuildManifest(root string, exts []string) (Manifest, error) {
	m := Manifest{Root: root}
	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return m, fmt.Errorf("read data dir: %w", err)
	}
	for _, e := range dirEntries {
		if e.IsDir() {
			m.Periods = append(m.Periods, e.Name())
		}
	}
	sort.Strings(m.Periods)

	want := make(map[string]bool, len(exts))
	for _, ext := range exts {
		want[strings.ToLower(ext)] = true
	}
	for idx, folder := range m.Periods {
		dir := filepath.Join(root, folder)
		files, err := os.ReadDir(dir)
		if err != nil {
			return m, fmt.Errorf("read period %s: %w", folder, err)
		}
		var names []string
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			if want[strings.ToLower(filepath.Ext(f.Name()))] {
				names = append(names, f.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			m.Entries = append(m.Entries, Entry{
				Period: idx,
				Folder: folder,
				Path:   filepath.Join(dir, name),
				Name:   name,
			})
		}
	}
	return m, nil
}

// Counts returns the number of files per period index.
func (m Manifest) Counts() []int {
	out := make([]int, len(m.Periods))
	for _, e := range m.Entries {
		out[e.Period]++
	}
	return out
}
