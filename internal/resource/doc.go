// Package resource bounds the work a build pipeline may do at once.
//
// A Controller governs three resources:
//
//   - Memory: fail-fast accounting for large transient buffers (the projector's
//     neighbor tables)
//   - Workers: a weighted semaphore limiting concurrent projection workers
//   - IO: a token bucket throttling package uploads to blob storage
//
// Every method is nil-safe, so an absent Controller means "unlimited":
//
//	var rc *resource.Controller // no limits
//	_ = rc.AcquireMemory(1 << 20) // always nil
//
// Package files are written through a throttled writer:
//
//	w := resource.ThrottleWriter(ctx, f, rc)
package resource
