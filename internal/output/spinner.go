package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// writerIsTTY reports whether w is a file descriptor attached to a terminal.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}

// Spinner shows that a slow fetch is in progress.
// On a non-TTY writer it prints the message once instead of animating.
type Spinner struct {
	message string
	writer  io.Writer
	frames  []string

	mu      sync.Mutex
	running bool
	started time.Time
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewSpinner creates a spinner that writes to w. Call Start to show it.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		message: message,
		writer:  w,
		frames:  []string{"|", "/", "-", "\\"},
		done:    make(chan struct{}),
	}
}

// Start begins the animation. Calling Start twice is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.started = time.Now()

	if !writerIsTTY(s.writer) {
		fmt.Fprintf(s.writer, "%s...\n", s.message)
		return
	}

	s.wg.Add(1)
	go s.spin()
}

func (s *Spinner) spin() {
	defer s.wg.Done()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ticker.C:
			s.mu.Lock()
			elapsed := int(time.Since(s.started).Seconds())
			fmt.Fprintf(s.writer, "\r%s  %s (%ds)", s.frames[i%len(s.frames)], s.message, elapsed)
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

// Stop ends the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()

	if writerIsTTY(s.writer) {
		fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", len(s.message)+16))
	}
}
