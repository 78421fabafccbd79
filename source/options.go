package source

import (
	"log/slog"

	"github.com/hupe1980/boardmap/codec"
)

// EmbeddingsEntry is the archive member holding the embeddings.
const EmbeddingsEntry = "embeddings.jsonl"

type options struct {
	codec  codec.Codec
	logger *slog.Logger
}

func defaultOptions() options {
	return options{
		codec:  codec.Default,
		logger: slog.New(slog.DiscardHandler),
	}
}

// Option configures Load.
type Option func(*options)

// WithCodec sets the codec decoding embedding lines.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
