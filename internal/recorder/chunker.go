package recorder

import (
	"bytes"
	"sync"
	"time"
)

// chunker buffers encoder output and hands it out once per tick, the way a
// media recorder with a timeslice does. Nothing is emitted while paused and
// empty chunks are never emitted.
type chunker struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	paused bool

	firstWrite     chan struct{}
	firstWriteOnce sync.Once

	out chan []byte
}

func newChunker() *chunker {
	return &chunker{
		firstWrite: make(chan struct{}),
		out:        make(chan []byte, 4),
	}
}

// Write appends encoder output
func (c *chunker) Write(p []byte) (int, error) {
	c.mu.Lock()
	n, err := c.buf.Write(p)
	c.mu.Unlock()

	if n > 0 {
		c.firstWriteOnce.Do(func() { close(c.firstWrite) })
	}
	return n, err
}

func (c *chunker) setPaused(paused bool) {
	c.mu.Lock()
	c.paused = paused
	c.mu.Unlock()
}

// take removes the buffered bytes. Unless force is set nothing is taken
// while paused.
func (c *chunker) take(force bool) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	if (c.paused && !force) || c.buf.Len() == 0 {
		return nil
	}
	chunk := make([]byte, c.buf.Len())
	copy(chunk, c.buf.Bytes())
	c.buf.Reset()
	return chunk
}

// run emits a chunk per tick until eof is closed, then emits whatever is
// left and closes the output channel
func (c *chunker) run(ticks <-chan time.Time, eof <-chan struct{}) {
	defer close(c.out)

	for {
		select {
		case <-ticks:
			if chunk := c.take(false); chunk != nil {
				c.out <- chunk
			}
		case <-eof:
			if chunk := c.take(true); chunk != nil {
				c.out <- chunk
			}
			return
		}
	}
}
