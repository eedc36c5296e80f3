// Package rpc exposes a small admin surface over net/rpc: who is
// online, which tables are live. Meant for operator tooling on a
// loopback-bound port.
package rpc

import (
	"net"
	"net/rpc"

	"github.com/James-Trimble/PlayPalace11/logger"
)

// Server manages the RPC listener. Each Server carries its own service
// registry so independent instances never collide.
type Server struct {
	listener net.Listener
	address  string
	rpcSrv   *rpc.Server
}

// NewServer creates the listener; services are added via Register before
// Start.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
		rpcSrv:   rpc.NewServer(),
	}, nil
}

// Register publishes a service's methods.
func (s *Server) Register(rcvr any) error {
	return s.rpcSrv.Register(rcvr)
}

// Addr returns the bound listen address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Start begins serving RPC requests. Blocks; run it in a goroutine.
func (s *Server) Start() {
	logger.Log.Infof("Admin RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("Admin RPC listener closed.")
				return
			}
			logger.Log.Errorf("Admin RPC accept error: %v", err)
			continue
		}
		go s.rpcSrv.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping admin RPC server.")
		s.listener.Close()
	}
}

// StatusProvider is what the admin service asks of the server. Declared
// here so the server package implements it without a cycle.
type StatusProvider interface {
	OnlineUsernames() []string
	TableSummaries() []TableSummary
	UptimeSeconds() float64
}

// TableSummary describes one live table for operators.
type TableSummary struct {
	TableID  string
	GameType string
	Status   string
	Players  []string
}

// AdminService exposes the status methods over net/rpc.
type AdminService struct {
	provider StatusProvider
}

func NewAdminService(provider StatusProvider) *AdminService {
	return &AdminService{provider: provider}
}

type StatusArgs struct{}

type StatusReply struct {
	OnlineUsers []string
	TableCount  int
	Uptime      float64
}

// Status reports who is online and how many tables are live.
func (a *AdminService) Status(args *StatusArgs, reply *StatusReply) error {
	reply.OnlineUsers = a.provider.OnlineUsernames()
	reply.TableCount = len(a.provider.TableSummaries())
	reply.Uptime = a.provider.UptimeSeconds()
	return nil
}

type TablesArgs struct{}

type TablesReply struct {
	Tables []TableSummary
}

// Tables lists every live table with its seats.
func (a *AdminService) Tables(args *TablesArgs, reply *TablesReply) error {
	reply.Tables = a.provider.TableSummaries()
	return nil
}
