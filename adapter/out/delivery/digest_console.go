package delivery

import (
	"context"
	"fmt"
	"io"
	"os"

	"digest_server/core/domain"
	"digest_server/core/port/out"
)

// ConsoleSink prints the rendered digest to a writer, stdout by default.
type ConsoleSink struct {
	w io.Writer
}

// NewConsoleSink creates a console sink writing to stdout.
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{w: os.Stdout}
}

// NewConsoleSinkWriter creates a console sink writing to w.
func NewConsoleSinkWriter(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

// Deliver writes the plain-text digest artifact.
func (s *ConsoleSink) Deliver(ctx context.Context, report *domain.RunReport, digests []*domain.TopicDigest) error {
	_, err := fmt.Fprint(s.w, renderText(report, digests))
	return err
}

var _ out.DeliverySink = (*ConsoleSink)(nil)
