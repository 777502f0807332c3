package archive

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// NewBWLimiter creates a rate.Limiter that caps throughput to bytesPerSec.
// The burst is 1 MB so ordinary read and write sizes pass without being
// split, or bytesPerSec when that is smaller.
func NewBWLimiter(bytesPerSec int64) *rate.Limiter {
	burst := 1 << 20
	if bytesPerSec < int64(burst) {
		burst = int(bytesPerSec)
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), burst)
}

type rateLimitedReader struct {
	ctx     context.Context
	r       io.Reader
	limiter *rate.Limiter
}

func newRateLimitedReader(ctx context.Context, r io.Reader, limiter *rate.Limiter) *rateLimitedReader {
	return &rateLimitedReader{ctx: ctx, r: r, limiter: limiter}
}

func (rl *rateLimitedReader) Read(p []byte) (int, error) {
	// Never ask for more than one burst, or WaitN fails outright.
	if len(p) > rl.limiter.Burst() {
		p = p[:rl.limiter.Burst()]
	}
	n, err := rl.r.Read(p)
	if n > 0 {
		if waitErr := rl.limiter.WaitN(rl.ctx, n); waitErr != nil {
			return n, waitErr
		}
	}
	return n, err
}

type rateLimitedWriter struct {
	ctx     context.Context
	w       io.Writer
	limiter *rate.Limiter
}

func newRateLimitedWriter(ctx context.Context, w io.Writer, limiter *rate.Limiter) *rateLimitedWriter {
	return &rateLimitedWriter{ctx: ctx, w: w, limiter: limiter}
}

func (rw *rateLimitedWriter) Write(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		chunk := min(len(p)-written, rw.limiter.Burst())
		if err := rw.limiter.WaitN(rw.ctx, chunk); err != nil {
			return written, err
		}
		n, err := rw.w.Write(p[written : written+chunk])
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
