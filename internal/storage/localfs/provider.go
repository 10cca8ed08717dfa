// Package localfs implements storage.Provider on a local directory.
// Staged names are "<unix-nano>-<name>" so concurrent requests never share a path.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"
)

const (
	maxCreateAttempts = 8
	// maxBaseBytes keeps "<stamp>-<base>" under the common 255-byte NAME_MAX.
	// A nanosecond stamp is at most 19 digits; one more covers the separator.
	maxBaseBytes = 255 - 20
)

// Provider stages files under a single root directory.
type Provider struct {
	root string
	now  func() time.Time
	last atomic.Int64
}

// New resolves root, creates it when missing, and verifies it is writable.
// It is the explicit initialization step run once at startup.
func New(root string) (*Provider, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("staging dir is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve staging dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	probe, err := os.CreateTemp(abs, ".probe-*")
	if err != nil {
		return nil, fmt.Errorf("staging dir not writable: %w", err)
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())
	return &Provider{root: abs, now: time.Now}, nil
}

// Root returns the absolute staging directory.
func (p *Provider) Root() string {
	return p.root
}

// Create opens a new file named "<unix-nano>-<name>". Stamps are strictly increasing within
// the process; O_EXCL covers other processes sharing the directory.
func (p *Provider) Create(_ context.Context, name string) (*os.File, error) {
	base := sanitizeName(name)
	stamp := p.nextStamp()
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		dest := filepath.Join(p.root, strconv.FormatInt(stamp+int64(attempt), 10)+"-"+base)
		f, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create file %q: %w", base, withoutPath(err))
		}
	}
	return nil, fmt.Errorf("create file: no free name for %q", base)
}

func (p *Provider) nextStamp() int64 {
	stamp := p.now().UnixNano()
	for {
		last := p.last.Load()
		next := stamp
		if next <= last {
			next = last + 1
		}
		if p.last.CompareAndSwap(last, next) {
			return next
		}
	}
}

// Remove deletes a staged file.
func (p *Provider) Remove(_ context.Context, path string) error {
	dest, err := p.stagedPath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// stagedPath rejects paths outside the staging root.
func (p *Provider) stagedPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("path is required")
	}
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) {
		clean = filepath.Join(p.root, clean)
	}
	if !strings.HasPrefix(clean, p.root+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes staging dir: %s", path)
	}
	return clean, nil
}

// sanitizeName keeps only the final path element so names cannot escape the root.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\\", "/")
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.TrimLeft(name, ".")
	if name == "" {
		return "file"
	}
	return truncateName(name, maxBaseBytes)
}

// truncateName shortens name to at most limit bytes, keeping a short extension
// and cutting only on a rune boundary.
func truncateName(name string, limit int) string {
	if len(name) <= limit {
		return name
	}
	ext := filepath.Ext(name)
	if len(ext) > limit/4 || !utf8.ValidString(ext) {
		ext = ""
	}
	stem := name[:len(name)-len(ext)]
	n := limit - len(ext)
	for n > 0 && !utf8.RuneStart(stem[n]) {
		n--
	}
	return stem[:n] + ext
}

// withoutPath drops the absolute staging path from filesystem errors; callers
// name the file themselves.
func withoutPath(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}
