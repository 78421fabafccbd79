package resource

import (
	"context"
	"io"
)

// writeChunk is the unit a throttled writer paces. Small enough that a
// package file grows steadily rather than after one long wait.
const writeChunk = 64 << 10

// throttledWriter forwards writes chunk by chunk once the IO budget admits them.
type throttledWriter struct {
	ctx context.Context
	w   io.Writer
	rc  *Controller
}

// ThrottleWriter returns w paced to rc's IO limit. With a nil controller or
// no IO limit, w is returned unchanged.
func ThrottleWriter(ctx context.Context, w io.Writer, rc *Controller) io.Writer {
	if rc == nil || rc.ioLimiter == nil {
		return w
	}
	return &throttledWriter{ctx: ctx, w: w, rc: rc}
}

func (t *throttledWriter) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		n := min(len(p), writeChunk)
		if err := t.rc.AcquireIO(t.ctx, n); err != nil {
			return written, err
		}
		m, err := t.w.Write(p[:n])
		written += m
		if err != nil {
			return written, err
		}
		p = p[n:]
	}
	return written, nil
}
