package download

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/handiism/course-mirror/internal/model"
)

// FailurePolicy decides what happens when a source page cannot be reached.
type FailurePolicy interface {
	// RetryPage reports whether the page fetch of src should be attempted
	// again after err.
	RetryPage(ctx context.Context, src model.Source, err error) bool
}

// Unattended never retries.
type Unattended struct{}

// RetryPage always returns false.
func (Unattended) RetryPage(context.Context, model.Source, error) bool {
	return false
}

// InteractivePolicy asks the operator to restore connectivity and press
// Enter to retry. Typing "q" or closing the input gives up.
type InteractivePolicy struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

// NewInteractivePolicy creates a policy reading from stdin.
func NewInteractivePolicy() *InteractivePolicy {
	return &InteractivePolicy{In: os.Stdin, Out: os.Stderr}
}

// RetryPage prompts once and waits for an answer.
func (p *InteractivePolicy) RetryPage(ctx context.Context, src model.Source, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}

	fmt.Fprintf(p.Out, "No internet connection (%s) - connect to the internet and press Enter to retry, q to quit: ", src.Name)
	line, rerr := p.reader.ReadString('\n')
	if rerr != nil && line == "" {
		fmt.Fprintln(p.Out)
		return false
	}
	return !strings.EqualFold(strings.TrimSpace(line), "q")
}
