package reel

import (
	"os"
	"path/filepath"
)

// outputFile writes to a temporary file beside path and renames it into
// place on Commit, so a failed render never leaves a truncated animation.
type outputFile struct {
	path string
	tmp  *os.File
	err  error
}

func newOutputFile(path string) *outputFile {
	return &outputFile{path: path}
}

func (o *outputFile) Write(p []byte) (int, error) {
	if o.err != nil {
		return 0, o.err
	}
	if o.tmp == nil {
		dir := filepath.Dir(o.path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			o.err = err
			return 0, err
		}
		f, err := os.CreateTemp(dir, ".routereel-*.tmp")
		if err != nil {
			o.err = err
			return 0, err
		}
		o.tmp = f
	}
	n, err := o.tmp.Write(p)
	if err != nil {
		o.err = err
	}
	return n, err
}

// Commit moves the written data to its final path.
func (o *outputFile) Commit() error {
	if o.err != nil {
		o.Abort()
		return o.err
	}
	if o.tmp == nil {
		return nil
	}
	name := o.tmp.Name()
	if err := o.tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	o.tmp = nil
	return os.Rename(name, o.path)
}

// Abort discards anything written so far.
func (o *outputFile) Abort() {
	if o.tmp == nil {
		return
	}
	name := o.tmp.Name()
	o.tmp.Close()
	os.Remove(name)
	o.tmp = nil
}
