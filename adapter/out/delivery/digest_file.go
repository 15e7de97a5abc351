package delivery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"digest_server/core/domain"
	"digest_server/core/port/out"
	"digest_server/pkg/apperr"
)

// FileSink writes each run's report and digests as one JSON document for
// downstream tooling.
type FileSink struct {
	dir string
}

// NewFileSink creates a file sink writing into dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

type fileArtifact struct {
	Report  *domain.RunReport     `json:"report"`
	Digests []*domain.TopicDigest `json:"digests"`
}

// Deliver writes digest-<run-id>.json into the sink directory.
func (s *FileSink) Deliver(ctx context.Context, report *domain.RunReport, digests []*domain.TopicDigest) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return apperr.DeliveryFailed("file", err)
	}

	data, err := json.MarshalIndent(fileArtifact{Report: report, Digests: digests}, "", "  ")
	if err != nil {
		return apperr.DeliveryFailed("file", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("digest-%s.json", report.RunID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperr.DeliveryFailed("file", err)
	}
	return nil
}

var _ out.DeliverySink = (*FileSink)(nil)
