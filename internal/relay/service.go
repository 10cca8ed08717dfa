// Package relay drives one media request from attachment to published page,
// mirroring progress into a single status message.
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/memohai/telegraph-relay/internal/logger"
	"github.com/memohai/telegraph-relay/internal/media"
	"github.com/memohai/telegraph-relay/internal/metrics"
)

// FileResolver turns a platform file token into a fetchable URL.
type FileResolver interface {
	ResolveFileURL(ctx context.Context, fileID string) (string, error)
}

// Fetcher stages a remote file locally.
type Fetcher interface {
	Fetch(ctx context.Context, src media.ResolvedSource) (media.LocalFile, error)
}

// Publisher turns a staged file into a public page and consumes it.
type Publisher interface {
	Publish(ctx context.Context, file media.LocalFile) (media.PublishResult, error)
}

// Options bound each stage. Zero disables the bound.
type Options struct {
	DownloadTimeout time.Duration
	UploadTimeout   time.Duration
}

// Service runs the relay pipeline. It is safe for concurrent use; requests share no state.
type Service struct {
	resolver  FileResolver
	fetcher   Fetcher
	publisher Publisher
	metrics   *metrics.Metrics
	opts      Options
	logger    *slog.Logger
	newID     func() string
}

// NewService creates a Service.
func NewService(log *slog.Logger, resolver FileResolver, fetcher Fetcher, publisher Publisher, m *metrics.Metrics, opts Options) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		resolver:  resolver,
		fetcher:   fetcher,
		publisher: publisher,
		metrics:   m,
		opts:      opts,
		logger:    log.With(slog.String("service", "relay")),
		newID:     uuid.NewString,
	}
}

// Handle processes one attachment. It never returns an error or panics: every
// outcome is reported to conv as exactly one terminal status.
func (s *Service) Handle(ctx context.Context, att media.Attachment, conv Conversation) {
	log, ok := logger.Lookup(ctx)
	if !ok {
		log = s.logger
	}
	log = log.With(slog.String("request_id", s.newID()), slog.String("kind", string(att.Kind)))
	ctx = logger.WithContext(ctx, log)

	msg := &statusMessage{conv: conv, logger: log}
	done := s.metrics.Begin()
	defer done()

	defer func() {
		if r := recover(); r != nil {
			log.Error("relay panic", slog.Any("panic", r))
			s.metrics.IncRequest(string(att.Kind), "failed")
			if !msg.terminal() {
				_ = msg.update(ctx, Status{Stage: StageFailed, Reason: "internal error"})
			}
		}
	}()

	if strings.TrimSpace(att.FileID) == "" {
		err := &media.ValidationError{Field: "file id"}
		log.Error("rejected attachment", slog.Any("error", err))
		s.metrics.IncRequest(string(att.Kind), "invalid")
		if sendErr := msg.update(ctx, Status{Stage: StageFailed, Reason: err.Error(), Invalid: true}); sendErr != nil {
			log.Warn("status send failed", slog.Any("error", sendErr))
		}
		return
	}

	if err := msg.update(ctx, Status{Stage: StageProcessing}); err != nil {
		log.Error("status send failed", slog.Any("error", err))
		s.metrics.IncRequest(string(att.Kind), "failed")
		return
	}

	result, err := s.run(ctx, att, msg)
	if err != nil {
		log.Error("relay failed", slog.String("file", att.FileName), slog.Any("error", err))
		s.metrics.IncRequest(string(att.Kind), "failed")
		_ = msg.update(ctx, Status{Stage: StageFailed, Reason: err.Error()})
		return
	}
	log.Info("relay succeeded", slog.String("file", att.FileName), slog.String("url", result.URL))
	s.metrics.IncRequest(string(att.Kind), "success")
	_ = msg.update(ctx, Status{Stage: StageSucceeded, URL: result.URL})
}

func (s *Service) run(ctx context.Context, att media.Attachment, msg *statusMessage) (media.PublishResult, error) {
	name := media.DefaultFileName(att.Kind, att.FileName)

	var downloadURL string
	err := s.stage(ctx, "resolve", s.opts.DownloadTimeout, func(ctx context.Context) error {
		var err error
		downloadURL, err = s.resolver.ResolveFileURL(ctx, att.FileID)
		if err != nil {
			return fmt.Errorf("resolve file: %w", err)
		}
		return nil
	})
	if err != nil {
		return media.PublishResult{}, err
	}

	_ = msg.update(ctx, Status{Stage: StageDownloading})
	var file media.LocalFile
	err = s.stage(ctx, "fetch", s.opts.DownloadTimeout, func(ctx context.Context) error {
		var err error
		file, err = s.fetcher.Fetch(ctx, media.ResolvedSource{DownloadURL: downloadURL, FileName: name})
		return err
	})
	if err != nil {
		return media.PublishResult{}, err
	}
	s.metrics.AddBytesFetched(file.Size)

	_ = msg.update(ctx, Status{Stage: StageUploading})
	var result media.PublishResult
	err = s.stage(ctx, "publish", s.opts.UploadTimeout, func(ctx context.Context) error {
		var err error
		result, err = s.publisher.Publish(ctx, file)
		return err
	})
	return result, err
}

func (s *Service) stage(ctx context.Context, name string, timeout time.Duration, fn func(context.Context) error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	started := time.Now()
	err := fn(ctx)
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.ObserveStage(name, status, time.Since(started))
	logger.FromContext(ctx).Debug("stage finished", slog.String("stage", name), slog.String("status", status), slog.Duration("took", time.Since(started)))
	return err
}
