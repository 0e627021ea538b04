package recorder

import (
	"bytes"
	"testing"
	"time"
)

func receive(t *testing.T, ch <-chan []byte) ([]byte, bool) {
	t.Helper()
	select {
	case chunk, ok := <-ch:
		return chunk, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for chunk")
		return nil, false
	}
}

func TestChunker_EmitsPerTick(t *testing.T) {
	c := newChunker()
	ticks := make(chan time.Time)
	eof := make(chan struct{})
	go c.run(ticks, eof)

	c.Write([]byte("abc"))
	ticks <- time.Now()

	chunk, ok := receive(t, c.out)
	if !ok || string(chunk) != "abc" {
		t.Fatalf("expected chunk abc, got %q (ok=%v)", chunk, ok)
	}

	c.Write([]byte("de"))
	c.Write([]byte("f"))
	ticks <- time.Now()

	chunk, _ = receive(t, c.out)
	if string(chunk) != "def" {
		t.Errorf("expected chunk def, got %q", chunk)
	}

	close(eof)
	if _, ok := receive(t, c.out); ok {
		t.Error("expected channel to be closed")
	}
}

func TestChunker_NoEmptyChunks(t *testing.T) {
	c := newChunker()
	ticks := make(chan time.Time)
	eof := make(chan struct{})
	go c.run(ticks, eof)

	ticks <- time.Now()
	ticks <- time.Now()
	close(eof)

	if chunk, ok := receive(t, c.out); ok {
		t.Errorf("expected no chunks, got %q", chunk)
	}
}

func TestChunker_PausedHoldsData(t *testing.T) {
	c := newChunker()
	ticks := make(chan time.Time)
	eof := make(chan struct{})
	go c.run(ticks, eof)

	c.Write([]byte("before"))
	c.setPaused(true)
	ticks <- time.Now()
	ticks <- time.Now()

	select {
	case chunk := <-c.out:
		t.Fatalf("expected nothing while paused, got %q", chunk)
	default:
	}

	c.setPaused(false)
	ticks <- time.Now()

	chunk, _ := receive(t, c.out)
	if string(chunk) != "before" {
		t.Errorf("expected buffered data after resume, got %q", chunk)
	}
	close(eof)
}

func TestChunker_FlushOnEOF(t *testing.T) {
	c := newChunker()
	eof := make(chan struct{})
	go c.run(nil, eof)

	c.Write([]byte("tail"))
	c.setPaused(true)
	close(eof)

	chunk, ok := receive(t, c.out)
	if !ok || string(chunk) != "tail" {
		t.Fatalf("expected final chunk tail, got %q (ok=%v)", chunk, ok)
	}
	if _, ok := receive(t, c.out); ok {
		t.Error("expected channel to be closed after final chunk")
	}
}

func TestChunker_ChunksAreCopies(t *testing.T) {
	c := newChunker()
	c.Write([]byte("one"))
	first := c.take(false)
	c.Write([]byte("two"))

	if !bytes.Equal(first, []byte("one")) {
		t.Errorf("expected first chunk to stay intact, got %q", first)
	}
}

func TestChunker_FirstWriteSignal(t *testing.T) {
	c := newChunker()

	select {
	case <-c.firstWrite:
		t.Fatal("firstWrite closed before any data")
	default:
	}

	c.Write(nil)
	select {
	case <-c.firstWrite:
		t.Fatal("firstWrite closed by an empty write")
	default:
	}

	c.Write([]byte("x"))
	c.Write([]byte("y"))
	select {
	case <-c.firstWrite:
	default:
		t.Error("expected firstWrite to be closed")
	}
}

func TestTailBuffer(t *testing.T) {
	b := &tailBuffer{limit: 5}
	b.Write([]byte("hello "))
	b.Write([]byte("world"))

	if got := b.String(); got != "world" {
		t.Errorf("expected last 5 bytes, got %q", got)
	}
}
