// Package publish turns a staged local file into a public Telegraph page.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/memohai/telegraph-relay/internal/media"
	"github.com/memohai/telegraph-relay/internal/storage"
	"github.com/memohai/telegraph-relay/internal/telegraph"
)

const (
	pageTitle       = "Shared Media"
	genericTemplate = "This file (%s) cannot be directly embedded. It has been processed by the Telegraph Bot."
)

// Hosting is the subset of the Telegraph client the publisher needs.
type Hosting interface {
	Upload(ctx context.Context, path, name string) ([]telegraph.UploadedFile, error)
	CreatePage(ctx context.Context, input telegraph.PageInput) (telegraph.Page, error)
	ResolveSrc(src string) string
}

// Publisher uploads and wraps files in pages. Every call consumes its LocalFile.
type Publisher struct {
	hosting    Hosting
	store      storage.Provider
	authorName string
	authorURL  string
	logger     *slog.Logger
}

// Options sets the page attribution.
type Options struct {
	AuthorName string
	AuthorURL  string
}

// NewPublisher creates a Publisher.
func NewPublisher(log *slog.Logger, hosting Hosting, store storage.Provider, opts Options) *Publisher {
	if log == nil {
		log = slog.Default()
	}
	return &Publisher{
		hosting:    hosting,
		store:      store,
		authorName: strings.TrimSpace(opts.AuthorName),
		authorURL:  strings.TrimSpace(opts.AuthorURL),
		logger:     log.With(slog.String("component", "publisher")),
	}
}

// Publish classifies file by its declared name and creates the matching page.
// The staged file is removed exactly once before Publish returns, on every path.
func (p *Publisher) Publish(ctx context.Context, file media.LocalFile) (result media.PublishResult, err error) {
	defer p.cleanup(ctx, file)

	category := media.Classify(file.Name)
	log := p.logger.With(slog.String("file", file.Name), slog.String("category", string(category)))

	var page telegraph.Page
	switch category {
	case media.CategoryImage:
		page, err = p.publishImage(ctx, file)
	default:
		page, err = p.publishGeneric(ctx, file)
	}
	if err != nil {
		// The relay logs the failure once at error level.
		log.Debug("publish failed", slog.Any("error", err))
		return media.PublishResult{}, &media.PublishError{Name: file.Name, Cause: err}
	}
	log.Info("published", slog.String("url", page.URL))
	return media.PublishResult{URL: page.URL}, nil
}

func (p *Publisher) publishImage(ctx context.Context, file media.LocalFile) (telegraph.Page, error) {
	uploaded, err := p.hosting.Upload(ctx, file.Path, file.Name)
	if err != nil {
		return telegraph.Page{}, &media.UploadError{Cause: err}
	}
	if len(uploaded) == 0 || strings.TrimSpace(uploaded[0].Src) == "" {
		return telegraph.Page{}, &media.UploadError{Cause: media.ErrMissingSource}
	}
	src := p.hosting.ResolveSrc(uploaded[0].Src)
	return p.hosting.CreatePage(ctx, telegraph.PageInput{
		Title:      pageTitle,
		AuthorName: p.authorName,
		AuthorURL:  p.authorURL,
		Content:    []telegraph.Node{telegraph.Figure(telegraph.Image(src))},
	})
}

func (p *Publisher) publishGeneric(ctx context.Context, file media.LocalFile) (telegraph.Page, error) {
	return p.hosting.CreatePage(ctx, telegraph.PageInput{
		Title:      pageTitle + ": " + file.Name,
		AuthorName: p.authorName,
		AuthorURL:  p.authorURL,
		Content:    []telegraph.Node{telegraph.Paragraph(fmt.Sprintf(genericTemplate, file.Name))},
	})
}

// cleanup never fails the publish result; a leftover file is only logged.
func (p *Publisher) cleanup(ctx context.Context, file media.LocalFile) {
	if file.Path == "" {
		return
	}
	if err := p.store.Remove(context.WithoutCancel(ctx), file.Path); err != nil {
		p.logger.Warn("remove staged file failed", slog.String("path", file.Path), slog.Any("error", err))
	}
}
