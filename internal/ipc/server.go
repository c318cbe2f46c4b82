package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"log/slog"

	"conductor/internal/api"
	"conductor/internal/daemon"
	"conductor/internal/jobstore"
	"conductor/internal/logging"
	"conductor/internal/services"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Conductor", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check socket permissions and restart the daemon if needed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func (s *service) Start(_ StartRequest, resp *StartResponse) error {
	s.log().Debug("daemon start requested")
	if err := s.daemon.Start(s.ctx); err != nil {
		resp.Started = false
		resp.Message = err.Error()
		return nil
	}
	resp.Started = true
	resp.Message = "daemon started"
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	*resp = s.daemon.Status(s.ctx)
	return nil
}

func (s *service) Submit(req SubmitRequest, resp *SubmitResponse) error {
	result, err := s.daemon.Submit(s.ctx, &jobstore.Job{
		ID:       req.ID,
		Type:     req.Type,
		Payload:  req.Payload,
		Priority: req.Priority,
	})
	if err != nil {
		return err
	}
	*resp = SubmitResponse{
		ID:       result.Job.ID,
		Status:   string(result.Job.Status),
		Position: result.Position,
		Existing: result.Existing,
	}
	return nil
}

func (s *service) JobList(req JobListRequest, resp *JobListResponse) error {
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	jobs, err := s.daemon.ListRecent(s.ctx, limit)
	if err != nil {
		return err
	}
	resp.Jobs = api.FromJobs(jobs)
	return nil
}

func (s *service) JobDescribe(req JobDescribeRequest, resp *JobDescribeResponse) error {
	job, err := s.daemon.GetJob(s.ctx, req.ID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return fmt.Errorf("job %s not found", req.ID)
		}
		return err
	}
	resp.Job = api.FromJob(job)
	return nil
}

func (s *service) QueueClear(req QueueClearRequest, resp *QueueClearResponse) error {
	band, ok := jobstore.ParseBand(req.Band)
	if !ok {
		return fmt.Errorf("unknown queue band %q", req.Band)
	}
	removed, err := s.daemon.ClearQueue(s.ctx, band)
	if err != nil {
		return err
	}
	resp.Band = string(band)
	resp.Removed = removed
	return nil
}

func (s *service) WorkerList(_ WorkerListRequest, resp *WorkerListResponse) error {
	workers, err := s.daemon.Workers(s.ctx)
	if err != nil {
		return err
	}
	resp.Workers = api.FromWorkers(workers)
	return nil
}

func (s *service) WorkerCommand(req WorkerCommandRequest, resp *WorkerCommandResponse) error {
	cmd, ok := jobstore.ParseCommand(req.Command)
	if !ok {
		return fmt.Errorf("unknown command %q", req.Command)
	}
	worker, err := s.daemon.SendCommand(s.ctx, req.Worker, cmd)
	if err != nil {
		return err
	}
	resp.Worker = worker
	resp.Command = string(cmd)
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, message, err := s.daemon.TestNotification(s.ctx)
	if err != nil {
		return err
	}
	resp.Sent = sent
	resp.Message = message
	return nil
}
