package feed

import (
	"bufio"
	"context"
	"io"
	"strings"

	feedv1 "github.com/kerwei/orderbook/internal/domain/feed/v1"
	"github.com/kerwei/orderbook/pkg/errors"
	"github.com/kerwei/orderbook/pkg/logger"
)

// StreamSource yields order entries line by line from an io.Reader,
// stdin in the usual deployment. Blank lines are ignored; a line that
// fails to parse is reported as a malformed entry so the caller can
// skip it and keep reading.
type StreamSource struct {
	scanner *bufio.Scanner
	logger  *logger.Logger
	line    int
}

// NewStreamSource creates a source over r.
func NewStreamSource(r io.Reader, log *logger.Logger) *StreamSource {
	return &StreamSource{
		scanner: bufio.NewScanner(r),
		logger:  log,
	}
}

// Next returns the next order entry, io.EOF at end of stream.
func (s *StreamSource) Next(ctx context.Context) (*feedv1.OrderEntry, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, errors.NewTracerWithCode(errors.FeedReadError, "failed to read order stream").Wrap(err)
			}
			return nil, io.EOF
		}
		s.line++

		text := strings.TrimSpace(s.scanner.Text())
		if text == "" {
			continue
		}

		entry, err := ParseEntry(text)
		if err != nil {
			s.logger.Warn("skipping malformed order entry",
				logger.Field{Key: "line", Value: s.line},
				logger.Field{Key: "record", Value: text},
				logger.Field{Key: "error", Value: err.Error()},
			)
			return nil, err
		}

		return entry, nil
	}
}

// Close implements OrderSource. The reader is owned by the caller.
func (s *StreamSource) Close() error {
	return nil
}
