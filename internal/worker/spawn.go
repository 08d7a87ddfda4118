package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/agbru/fermatbench/internal/fermat"
	"github.com/agbru/fermatbench/internal/logging"
)

// Conn is the dispatcher side of one isolated worker. A Conn serves one
// request at a time.
type Conn interface {
	// ID is the worker index assigned by the dispatcher.
	ID() int
	// PID identifies the hosting process (the dispatcher's own pid for
	// in-memory workers).
	PID() int
	// Do sends req and waits for its response. If ctx ends first the worker
	// is killed and ctx.Err() is returned.
	Do(ctx context.Context, req Request) (Response, error)
	// Close shuts the worker down and releases its resources.
	Close() error
}

// Spawner starts isolated workers.
type Spawner interface {
	Spawn(ctx context.Context, id int) (Conn, error)
}

// SpawnerFunc adapts a function to the Spawner interface.
type SpawnerFunc func(ctx context.Context, id int) (Conn, error)

// Spawn calls f(ctx, id).
func (f SpawnerFunc) Spawn(ctx context.Context, id int) (Conn, error) {
	return f(ctx, id)
}

// streamConn speaks the protocol over a pair of byte streams.
type streamConn struct {
	id      int
	pid     int
	w       io.Writer
	scanner *bufio.Scanner

	mu        sync.Mutex
	killed    bool
	kill      func()
	close     func() error
	closeOnce sync.Once
	closeErr  error
}

func newStreamConn(id, pid int, w io.Writer, r io.Reader, kill func(), closeFn func() error) *streamConn {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxLineBytes)
	return &streamConn{id: id, pid: pid, w: w, scanner: scanner, kill: kill, close: closeFn}
}

func (c *streamConn) ID() int  { return c.id }
func (c *streamConn) PID() int { return c.pid }

func (c *streamConn) Do(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	type outcome struct {
		resp Response
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		resp, err := c.roundTrip(req)
		done <- outcome{resp, err}
	}()

	select {
	case o := <-done:
		return o.resp, o.err
	case <-ctx.Done():
		c.terminate()
		<-done
		return Response{}, ctx.Err()
	}
}

func (c *streamConn) roundTrip(req Request) (Response, error) {
	line, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("encode request: %w", err)
	}
	if _, err := c.w.Write(append(line, '\n')); err != nil {
		return Response{}, fmt.Errorf("worker %d: send request: %w", c.id, err)
	}
	if !c.scanner.Scan() {
		err := c.scanner.Err()
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return Response{}, fmt.Errorf("worker %d: read response: %w", c.id, err)
	}
	var resp Response
	if err := json.Unmarshal(c.scanner.Bytes(), &resp); err != nil {
		return Response{}, fmt.Errorf("worker %d: decode response: %w", c.id, err)
	}
	if resp.Seq != req.Seq {
		return Response{}, fmt.Errorf("worker %d: response seq %d does not match request %d", c.id, resp.Seq, req.Seq)
	}
	return resp, nil
}

func (c *streamConn) terminate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.killed {
		c.killed = true
		c.kill()
	}
}

func (c *streamConn) Close() error {
	c.closeOnce.Do(func() {
		err := c.close()
		c.mu.Lock()
		killed := c.killed
		c.mu.Unlock()
		if !killed {
			c.closeErr = err
		}
	})
	return c.closeErr
}

// ExecSpawner runs each worker as a child process of the executable at Path
// (the running binary when empty) with EnvWorker set. The child reads
// requests on stdin and writes responses on stdout.
type ExecSpawner struct {
	Path   string
	Args   []string
	Env    []string
	Stderr io.Writer
}

// Spawn starts one worker process.
func (s ExecSpawner) Spawn(ctx context.Context, id int) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.Path
	if path == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("locate executable: %w", err)
		}
		path = exe
	}

	// The process outlives this call, so it is not bound to ctx; Do and
	// Close manage its lifetime.
	cmd := exec.Command(path, s.Args...)
	cmd.Env = append(append(os.Environ(), EnvWorker+"=1"), s.Env...)
	cmd.Stderr = s.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("worker %d: stdin pipe: %w", id, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("worker %d: stdout pipe: %w", id, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start worker %d: %w", id, err)
	}

	kill := func() { _ = cmd.Process.Kill() }
	closeFn := func() error {
		_ = stdin.Close()
		if err := cmd.Wait(); err != nil {
			return fmt.Errorf("worker %d exited: %w", id, err)
		}
		return nil
	}
	return newStreamConn(id, cmd.Process.Pid, stdin, stdout, kill, closeFn), nil
}

// PipeSpawner hosts each worker on a goroutine connected through in-memory
// pipes. Requests still travel through the wire codec, so no state is shared
// with the dispatcher beyond the immutable registry.
type PipeSpawner struct {
	Registry *fermat.Registry
	Logger   logging.Logger
}

// Spawn starts one in-memory worker.
func (s PipeSpawner) Spawn(ctx context.Context, id int) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	registry := s.Registry
	if registry == nil {
		registry = fermat.NewDefaultRegistry()
	}
	logger := s.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	server := NewServer(registry, logger.With(logging.Int("worker", id)))

	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()
	serveCtx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() {
		err := server.Serve(serveCtx, reqR, respW)
		_ = respW.CloseWithError(err)
		_ = reqR.CloseWithError(err)
		served <- err
	}()

	var killed atomic.Bool
	kill := func() {
		killed.Store(true)
		cancel()
		_ = reqW.CloseWithError(errKilled)
		_ = respR.CloseWithError(errKilled)
	}
	closeFn := func() error {
		_ = reqW.Close()
		if killed.Load() {
			// The serving goroutine exits after its current item.
			return nil
		}
		err := <-served
		cancel()
		return err
	}
	return newStreamConn(id, os.Getpid(), reqW, respR, kill, closeFn), nil
}

var errKilled = errors.New("worker killed")
