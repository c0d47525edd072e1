package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// Spinner shows a frame counter while a multi-file render runs. It stops
// on its own when the parent context is cancelled.
type Spinner struct {
	w      io.Writer
	kind   spinner.Spinner
	label  string
	total  int
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	exited chan struct{}

	mu      sync.Mutex
	done    int
	running bool
	width   int
}

// newSpinner creates a spinner counting up to total items.
func newSpinner(ctx context.Context, label string, total int) *Spinner {
	inner, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:      os.Stderr,
		kind:   spinner.MiniDot,
		label:  label,
		total:  total,
		parent: ctx,
		ctx:    inner,
		cancel: cancel,
		exited: make(chan struct{}),
	}
}

// Start begins the animation. Calling it twice has no effect.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	go s.loop()
}

func (s *Spinner) loop() {
	defer close(s.exited)
	ticker := time.NewTicker(s.kind.FPS)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-ticker.C:
			s.draw(s.kind.Frames[i%len(s.kind.Frames)])
		}
	}
}

// Advance counts one finished item.
func (s *Spinner) Advance() {
	s.mu.Lock()
	s.done++
	s.mu.Unlock()
}

func (s *Spinner) message() string {
	return fmt.Sprintf("%s %d/%d", s.label, s.done, s.total)
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := markSpinner.Render(frame) + " " + StyleDim.Render(s.message())
	s.width = max(s.width, len(s.message())+len(frame)+1)
	fmt.Fprintf(s.w, "\r%s", line)
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// Stop ends the animation and clears the line. It is safe to call more
// than once, and before Start.
func (s *Spinner) Stop() {
	s.cancel()
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if running {
		<-s.exited
	}
}

// StopWithError stops the spinner and prints message as an error.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context ended the spinner.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
