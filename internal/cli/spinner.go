package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a message on w (stderr in practice, so stdout stays
// pipeable) until it is stopped or its context ends.
type Spinner struct {
	w       io.Writer
	message string

	ctx    context.Context
	cancel context.CancelFunc
	exited chan struct{}
	once   sync.Once
}

// startSpinner starts animating message and returns the running spinner.
func startSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &Spinner{w: w, message: message, ctx: ctx, cancel: cancel, exited: make(chan struct{})}
	go s.run()
	return s
}

// withSpinner runs fn while a spinner shows message.
func withSpinner(ctx context.Context, w io.Writer, message string, fn func(context.Context) error) error {
	s := startSpinner(ctx, w, message)
	defer s.Stop()
	return fn(s.ctx)
}

func (s *Spinner) run() {
	defer close(s.exited)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
			return
		case <-tick.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
		}
	}
}

// Stop ends the animation and clears its line. It may be called more than
// once.
func (s *Spinner) Stop() {
	s.once.Do(s.cancel)
	<-s.exited
}

// StopWithSuccess stops and prints message as a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess(s.w, "%s", message)
}

// StopWithError stops and prints message as an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError(s.w, "%s", message)
}

// Done is closed once the animation has ended, whether by Stop or because
// the parent context was canceled.
func (s *Spinner) Done() <-chan struct{} { return s.exited }
