package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// PIDFileName is written under the Wolong dir while wolongd runs.
const PIDFileName = "wolongd.pid"

// ErrNoPIDFile is returned by ReadPID when wolongd left no pid behind.
var ErrNoPIDFile = errors.New("no wolongd pid file")

// PIDFile records the running daemon's process id.
type PIDFile struct {
	path string
}

// NewPIDFile returns the pid file inside wolongDir.
func NewPIDFile(wolongDir string) PIDFile {
	return PIDFile{path: filepath.Join(wolongDir, PIDFileName)}
}

// Path returns the file location.
func (f PIDFile) Path() string { return f.path }

// Write stores pid, replacing any previous value.
func (f PIDFile) Write(pid int) error {
	if err := os.WriteFile(f.path, []byte(strconv.Itoa(pid)+"\n"), 0644); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	return nil
}

// Read returns the stored pid.
func (f PIDFile) Read() (int, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, ErrNoPIDFile
	}
	if err != nil {
		return 0, fmt.Errorf("read pid file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("pid file %s holds %q: invalid pid", f.path, strings.TrimSpace(string(data)))
	}
	return pid, nil
}

// Remove deletes the file. A missing file is not an error.
func (f PIDFile) Remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove pid file: %w", err)
	}
	return nil
}
