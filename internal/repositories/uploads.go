package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const maxNameAttempts = 100

// LocalUploads writes attachments into a single directory on disk. Paths
// handed out are the public "uploads/<name>" form served under /uploads/,
// whatever the directory is called on disk.
type LocalUploads struct {
	dir string
	now func() time.Time
}

func NewLocalUploads(dir string) *LocalUploads {
	return &LocalUploads{dir: dir, now: time.Now}
}

func (u *LocalUploads) Store(_ context.Context, r io.Reader, originalName string) (string, error) {
	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	stamp := strconv.FormatInt(u.now().UnixMilli(), 10)
	ext := filepath.Ext(filepath.Base(originalName))

	var (
		dst  *os.File
		name string
		err  error
	)
	for i := 0; i < maxNameAttempts; i++ {
		name = stamp + ext
		if i > 0 {
			name = stamp + "-" + strconv.Itoa(i) + ext
		}
		dst, err = os.OpenFile(filepath.Join(u.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil || !errors.Is(err, fs.ErrExist) {
			break
		}
	}
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	return objectPrefix + name, nil
}

func (u *LocalUploads) Remove(_ context.Context, p string) error {
	name, ok := u.nameOf(p)
	if !ok {
		return fmt.Errorf("path %q is outside the upload dir", p)
	}
	err := os.Remove(filepath.Join(u.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove upload file: %w", err)
	}
	return nil
}

func (u *LocalUploads) Locate(_ context.Context, name string) (Location, error) {
	if !validName(name) {
		return Location{}, ErrNotFound
	}
	full := filepath.Join(u.dir, name)
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return Location{}, ErrNotFound
	}
	return Location{LocalPath: full}, nil
}

// nameOf returns the file name of a path previously returned by Store.
func (u *LocalUploads) nameOf(p string) (string, bool) {
	name, ok := strings.CutPrefix(p, objectPrefix)
	if !ok {
		return "", false
	}
	return name, validName(name)
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && filepath.Base(name) == name && path.Base(name) == name
}
