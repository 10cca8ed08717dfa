// Package fetch streams remote files into the local staging area.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/memohai/telegraph-relay/internal/media"
	"github.com/memohai/telegraph-relay/internal/storage"
)

// Fetcher downloads a remote resource to a staged local file.
type Fetcher struct {
	client   *http.Client
	store    storage.Provider
	maxBytes int64
	logger   *slog.Logger
}

// Options tune a Fetcher. A zero MaxBytes disables the size cap.
type Options struct {
	MaxBytes int64
	Client   *http.Client
}

// NewFetcher creates a Fetcher writing into store.
func NewFetcher(log *slog.Logger, store storage.Provider, opts Options) *Fetcher {
	if log == nil {
		log = slog.Default()
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{
		client:   client,
		store:    store,
		maxBytes: opts.MaxBytes,
		logger:   log.With(slog.String("component", "fetcher")),
	}
}

// Fetch streams src to a new staged file. The returned file is fully written and synced.
// On failure no handle is returned and the partial file is removed.
func (f *Fetcher) Fetch(ctx context.Context, src media.ResolvedSource) (media.LocalFile, error) {
	redacted := RedactURL(src.DownloadURL)
	fail := func(err error) (media.LocalFile, error) {
		return media.LocalFile{}, &media.DownloadError{URL: redacted, Cause: err}
	}
	if strings.TrimSpace(src.DownloadURL) == "" {
		return fail(errors.New("download url is required"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.DownloadURL, nil)
	if err != nil {
		return fail(fmt.Errorf("build download request: %w", err))
	}
	resp, err := f.client.Do(req)
	if err != nil {
		// The transport error embeds the raw URL, which carries the bot token.
		return fail(scrubURLError(err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return fail(fmt.Errorf("download status: %d", resp.StatusCode))
	}
	if f.maxBytes > 0 && resp.ContentLength > f.maxBytes {
		return fail(fmt.Errorf("%w: max %d bytes", media.ErrFileTooLarge, f.maxBytes))
	}

	// Filesystem errors embed the absolute staging path, and the cause reaches the user.
	file, err := f.store.Create(ctx, src.FileName)
	if err != nil {
		return fail(hidePath(err, src.FileName))
	}
	path := file.Name()
	size, err := writeAll(file, resp.Body, f.maxBytes, resp.ContentLength)
	if err != nil {
		err = hidePath(err, src.FileName)
		if rmErr := f.store.Remove(ctx, path); rmErr != nil {
			f.logger.Warn("remove partial file failed", slog.String("path", path), slog.Any("error", rmErr))
		}
		return fail(err)
	}

	f.logger.Info("file downloaded",
		slog.String("url", redacted),
		slog.String("path", path),
		slog.Int64("bytes", size),
	)
	return media.LocalFile{Path: path, Name: src.FileName, Size: size}, nil
}

// writeAll copies body into file, verifies the declared length, syncs, and closes.
// The file is always closed when writeAll returns.
func writeAll(file *os.File, body io.Reader, maxBytes, declared int64) (int64, error) {
	written, err := media.LimitWriter(file, body, maxBytes)
	if err != nil {
		_ = file.Close()
		return written, fmt.Errorf("write file: %w", err)
	}
	if declared >= 0 && written != declared {
		_ = file.Close()
		return written, fmt.Errorf("%w: got %d of %d bytes", media.ErrTruncated, written, declared)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return written, fmt.Errorf("sync file: %w", err)
	}
	if err := file.Close(); err != nil {
		return written, fmt.Errorf("close file: %w", err)
	}
	return written, nil
}

// RedactURL hides Bot API tokens ("/file/bot<token>/...") so URLs are safe to log.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "<invalid url>"
	}
	segments := strings.Split(u.Path, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, "bot") && strings.Contains(seg, ":") {
			segments[i] = "bot-redacted"
		}
	}
	u.Path = strings.Join(segments, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.User = nil
	return u.String()
}

func hidePath(err error, name string) error {
	var pathErr *fs.PathError
	if !errors.As(err, &pathErr) {
		return err
	}
	return fmt.Errorf("%s %q: %w", pathErr.Op, name, pathErr.Err)
}

func scrubURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s %s: %w", urlErr.Op, RedactURL(urlErr.URL), urlErr.Err)
	}
	return err
}
