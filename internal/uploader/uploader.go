// Package uploader streams content into a DocSpace upload session.
package uploader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/AltairaLabs/docspace-mcp/internal/config"
	"github.com/AltairaLabs/docspace-mcp/internal/docspace"
)

// ErrNotCompleted is returned when every chunk was sent but the backend never
// confirmed the upload
var ErrNotCompleted = errors.New("upload session not completed")

// ChunkSender sends one chunk of an upload session
type ChunkSender interface {
	UploadChunk(ctx context.Context, sessionID string, chunk []byte) (any, *docspace.Response, error)
}

// Option customizes an Uploader
type Option func(*Uploader)

// WithChunkSize sets the maximum size of one chunk. Sizes below one keep
// the default.
func WithChunkSize(n int) Option {
	return func(u *Uploader) {
		if n > 0 {
			u.chunkSize = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(u *Uploader) {
		u.logger = l
	}
}

// Uploader splits content into chunks and sends them in order
type Uploader struct {
	sender    ChunkSender
	chunkSize int
	logger    *slog.Logger
}

// New creates an Uploader with the default chunk size
func New(sender ChunkSender, opts ...Option) *Uploader {
	u := &Uploader{
		sender:    sender,
		chunkSize: config.DefaultChunkSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload sends content chunk by chunk. The backend signals completion with
// 201 Created, after which no further chunk is sent.
func (u *Uploader) Upload(ctx context.Context, sessionID string, content []byte) (any, *docspace.Response, error) {
	total := (len(content) + u.chunkSize - 1) / u.chunkSize

	var (
		payload   any
		res       *docspace.Response
		completed bool
	)
	for i := 0; i < total; i++ {
		start := i * u.chunkSize
		end := min(start+u.chunkSize, len(content))

		p, r, err := u.sender.UploadChunk(ctx, sessionID, content[start:end])
		if err != nil {
			return nil, nil, fmt.Errorf("chunk %d of %d: %w", i+1, total, err)
		}
		payload, res = p, r

		u.logger.DebugContext(ctx, "chunk uploaded",
			"session_id", sessionID,
			"chunk", i+1,
			"total", total)

		if r != nil && r.StatusCode == http.StatusCreated {
			completed = true
			break
		}
	}

	if !completed || payload == nil || res == nil {
		return nil, nil, ErrNotCompleted
	}
	return payload, res, nil
}
