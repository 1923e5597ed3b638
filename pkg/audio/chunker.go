package audio

import (
	"context"
	"errors"
	"io"
	"time"
)

const (
	DefaultChunkSize     = 4096
	DefaultChunkInterval = 100 * time.Millisecond
)

// Chunker slices a PCM stream into fixed-size chunks delivered at a paced
// interval, approximating the audio's real-time rate so the remote buffer
// is not overrun. Pacing lives here, not in the session: the session
// imposes no timing constraints of its own.
type Chunker struct {
	r        io.Reader
	size     int
	interval time.Duration
}

func NewChunker(r io.Reader, size int, interval time.Duration) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if interval <= 0 {
		interval = DefaultChunkInterval
	}
	return &Chunker{r: r, size: size, interval: interval}
}

// Stream reads chunks and hands each to fn, waiting the pacing interval
// between sends. It stops on EOF, on fn error, or when ctx is canceled.
func (c *Chunker) Stream(ctx context.Context, fn func(chunk []byte) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	buf := make([]byte, c.size)
	timer := time.NewTimer(c.interval)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		n, err := io.ReadFull(c.r, buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if err := fn(chunk); err != nil {
				return err
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return err
		}

		timer.Reset(c.interval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// StreamingParams describes how a PCM payload maps onto paced chunks.
type StreamingParams struct {
	BytesPerSecond int
	ChunkSize      int
	IntervalMS     int
	TotalChunks    int
}

// ParamsFor computes pacing parameters for a PCM payload of the given
// format and size.
func ParamsFor(sampleRate, channels, dataSize int) StreamingParams {
	bps := BytesPerSecond(sampleRate, channels)
	return StreamingParams{
		BytesPerSecond: bps,
		ChunkSize:      DefaultChunkSize,
		IntervalMS:     int(DefaultChunkInterval / time.Millisecond),
		TotalChunks:    (dataSize + DefaultChunkSize - 1) / DefaultChunkSize,
	}
}
