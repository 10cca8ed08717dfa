package media

import (
	"errors"
	"fmt"
)

var (
	// ErrFileTooLarge indicates the payload exceeds the configured max file size.
	ErrFileTooLarge = errors.New("media file too large")
	// ErrTruncated indicates fewer bytes arrived than the remote declared.
	ErrTruncated = errors.New("download truncated")
	// ErrMissingSource indicates the hosting upload returned no resource path.
	ErrMissingSource = errors.New("upload response has no src")
)

// ValidationError reports an inbound attachment that cannot be processed.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("could not process this file: %s is missing", e.Field)
}

// DownloadError reports a remote fetch or local write failure.
type DownloadError struct {
	URL   string
	Cause error
}

func (e *DownloadError) Error() string {
	return "failed to download file: " + causeText(e.Cause)
}

func (e *DownloadError) Unwrap() error { return e.Cause }

// UploadError reports a hosting upload that failed or answered without the expected shape.
type UploadError struct {
	Cause error
}

func (e *UploadError) Error() string {
	return "upload rejected: " + causeText(e.Cause)
}

func (e *UploadError) Unwrap() error { return e.Cause }

// PublishError wraps any publishing failure. It is returned only after the local file is cleaned up.
type PublishError struct {
	Name  string
	Cause error
}

func (e *PublishError) Error() string {
	return "failed to upload to telegraph: " + causeText(e.Cause)
}

func (e *PublishError) Unwrap() error { return e.Cause }

func causeText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
