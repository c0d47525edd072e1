package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testSpinner(ctx context.Context, total int) (*Spinner, *syncBuffer) {
	var buf syncBuffer
	s := newSpinner(ctx, "Rendering", total)
	s.w = &buf
	return s, &buf
}

func TestSpinnerCountsFrames(t *testing.T) {
	s, buf := testSpinner(context.Background(), 3)
	s.Start()
	s.Advance()
	s.Advance()
	time.Sleep(250 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "Rendering 2/3") {
		t.Errorf("spinner output should show progress, got %q", buf.String())
	}
}

func TestSpinnerParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, _ := testSpinner(ctx, 1)
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("spinner should report parent cancellation")
	}
}

func TestSpinnerTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s, _ := testSpinner(ctx, 1)
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should report the timeout")
	}
	s.Stop()
}

func TestSpinnerStopNotCancelled(t *testing.T) {
	s, _ := testSpinner(context.Background(), 1)
	s.Start()
	s.Stop()
	if s.Cancelled() {
		t.Error("Stop is not a parent cancellation")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := testSpinner(context.Background(), 1)
	s.Stop()
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithError(t *testing.T) {
	defer func(w io.Writer) { uiOut = w }(uiOut)
	var out bytes.Buffer
	uiOut = &out

	s, _ := testSpinner(context.Background(), 2)
	s.Start()
	s.StopWithError("Render failed")
	if !strings.Contains(out.String(), "Render failed") {
		t.Errorf("error line = %q", out.String())
	}
}
