package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	apperrors "github.com/agbru/fermatbench/internal/errors"
	"github.com/agbru/fermatbench/internal/fermat"
	"github.com/agbru/fermatbench/internal/logging"
)

// maxLineBytes bounds one protocol line. Batches of a few thousand wide
// numbers stay well below it.
const maxLineBytes = 16 << 20

// Server answers protocol requests with the variants of its own registry.
type Server struct {
	registry *fermat.Registry
	logger   logging.Logger
	pid      int
}

// NewServer creates a worker-side server. A nil logger discards output.
func NewServer(registry *fermat.Registry, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Server{registry: registry, logger: logger, pid: os.Getpid()}
}

// Serve reads requests from r and writes one response line per request to
// w until r reaches EOF or ctx is canceled. Cancellation is observed
// between items.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxLineBytes)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			return fmt.Errorf("decode request: %w", err)
		}
		resp, err := s.handle(ctx, req)
		if err != nil {
			return err
		}
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("encode response %d: %w", req.Seq, err)
		}
	}
	return scanner.Err()
}

func (s *Server) handle(ctx context.Context, req Request) (Response, error) {
	resp := Response{Seq: req.Seq, PID: s.pid}
	f, err := s.registry.Get(req.Variant)
	if err != nil {
		resp.Failure = NewWireError(apperrors.NewConfigError("%v", err))
		return resp, nil
	}

	resp.Results = make([]Result, 0, len(req.Items))
	for _, item := range req.Items {
		if err := ctx.Err(); err != nil {
			return resp, err
		}
		res := factorizeItem(f, item)
		resp.Results = append(resp.Results, res)
		if res.Err != nil {
			s.logger.Debug("item failed",
				logging.Int("item", item.ID),
				logging.String("n", item.N),
				logging.String("error", res.Err.Message))
			if req.StopOnError {
				break
			}
		}
	}
	return resp, nil
}

// factorizeItem runs one item and turns any error, including a panic, into
// a per-item WireError.
func factorizeItem(f fermat.Factorizer, item Item) (res Result) {
	res.ID = item.ID
	start := time.Now()
	defer func() {
		res.Nanos = time.Since(start).Nanoseconds()
		if r := recover(); r != nil {
			res.P, res.Q = "", ""
			res.Err = &WireError{Kind: KindPanic, Message: fmt.Sprint(r)}
		}
	}()

	n, err := fermat.ParseNumber(item.N)
	if err != nil {
		res.Err = NewWireError(apperrors.InvalidInputError{Value: item.N, Reason: "malformed"})
		return res
	}
	pair, err := f.Factorize(n)
	if err != nil {
		res.Err = NewWireError(err)
		return res
	}
	res.P, res.Q = pair.P.String(), pair.Q.String()
	return res
}

// ServeStdio runs a Server on the process standard streams. It is the body
// of a worker process.
func ServeStdio(ctx context.Context, registry *fermat.Registry, logger logging.Logger) error {
	err := NewServer(registry, logger).Serve(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
