package archive

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBWLimiter(t *testing.T) {
	t.Parallel()

	t.Run("burst capped to rate when rate < 1MB", func(t *testing.T) {
		t.Parallel()
		lim := NewBWLimiter(1024)
		assert.Equal(t, 1024, lim.Burst())
	})

	t.Run("burst is 1MB when rate >= 1MB", func(t *testing.T) {
		t.Parallel()
		lim := NewBWLimiter(10 * 1024 * 1024)
		assert.Equal(t, 1<<20, lim.Burst())
	})
}

func TestRateLimitedReader(t *testing.T) {
	t.Parallel()

	t.Run("reads all data", func(t *testing.T) {
		t.Parallel()
		data := bytes.Repeat([]byte("x"), 4096)
		rl := newRateLimitedReader(context.Background(), bytes.NewReader(data), NewBWLimiter(1<<20))

		got, err := io.ReadAll(rl)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("reads larger than burst", func(t *testing.T) {
		t.Parallel()
		data := bytes.Repeat([]byte("y"), 8192)
		rl := newRateLimitedReader(context.Background(), bytes.NewReader(data), NewBWLimiter(1<<30))
		rl.limiter.SetBurst(1024)

		got, err := io.ReadAll(rl)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		rl := newRateLimitedReader(ctx, bytes.NewReader([]byte("abc")), NewBWLimiter(1))

		_, err := io.ReadAll(rl)
		assert.Error(t, err)
	})
}

func TestRateLimitedWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes in burst-sized chunks", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		lim := NewBWLimiter(1 << 30)
		lim.SetBurst(100)
		w := newRateLimitedWriter(context.Background(), &buf, lim)

		data := bytes.Repeat([]byte("z"), 1000)
		n, err := w.Write(data)
		require.NoError(t, err)
		assert.Equal(t, 1000, n)
		assert.Equal(t, data, buf.Bytes())
	})

	t.Run("enforces rate limit", func(t *testing.T) {
		t.Parallel()
		// 4 KB at 4 KB/s with a 1 KB burst takes roughly 0.75s.
		var buf bytes.Buffer
		w := newRateLimitedWriter(context.Background(), &buf, NewBWLimiter(1024*4))
		w.limiter.SetBurst(1024)

		start := time.Now()
		_, err := w.Write(bytes.Repeat([]byte("a"), 4*1024))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 500*time.Millisecond)
	})
}
