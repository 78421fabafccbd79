package explorer

import (
	"context"
	"time"

	"github.com/hupe1980/boardmap/internal/cache"
	"github.com/hupe1980/boardmap/internal/hash"
	"github.com/hupe1980/boardmap/pack"
	"golang.org/x/sync/singleflight"
)

// Loader decodes packages into Sessions, memoizing them by the SHA-256 of
// their bytes. It is safe for concurrent use; concurrent loads of the same
// bytes decode once.
type Loader struct {
	opts  options
	memo  *cache.LRU[hash.Key, *Session]
	group singleflight.Group
}

// NewLoader creates a Loader.
func NewLoader(optFns ...Option) *Loader {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}
	return &Loader{
		opts: o,
		memo: cache.NewLRU[hash.Key, *Session](o.cacheSize, o.rc),
	}
}

// Load returns the Session for data. Decoding failures are returned as
// *model.CorruptPackageError and are never memoized.
func (l *Loader) Load(ctx context.Context, data []byte) (*Session, error) {
	start := time.Now()
	key := hash.ContentKey(data)

	if s, ok := l.memo.Get(key); ok {
		l.opts.metrics.OnLoad(len(data), true, time.Since(start), nil)
		l.opts.logger.Debug("package memo hit", "key", key.Short())
		return s, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, err, _ := l.group.Do(key.String(), func() (any, error) {
		if s, ok := l.memo.Get(key); ok {
			return s, nil
		}
		p, err := pack.Unmarshal(data, l.opts.packOpts...)
		if err != nil {
			return nil, err
		}
		s, err := newSession(p, key, l.opts)
		if err != nil {
			return nil, err
		}
		if !l.memo.Set(key, s, int64(len(data))) {
			l.opts.logger.Debug("package not memoized", "key", key.Short(), "bytes", len(data))
		}
		return s, nil
	})
	l.opts.metrics.OnLoad(len(data), false, time.Since(start), err)
	if err != nil {
		l.opts.logger.Error("load package", "key", key.Short(), "error", err)
		return nil, err
	}

	s := v.(*Session)
	l.opts.logger.Info("package loaded", "key", key.Short(), "routes", s.Len(), "bytes", len(data), "duration", time.Since(start))
	return s, nil
}

// Forget drops the memoized Session for data, if any.
func (l *Loader) Forget(data []byte) {
	l.memo.Remove(hash.ContentKey(data))
}

// Stats returns memo hits and misses.
func (l *Loader) Stats() (hits, misses int64) {
	return l.memo.Stats()
}
