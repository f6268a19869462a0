package server

import (
	"fmt"
	"net"
	"net/http"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sisu-network/lib/log"
)

const Namespace = "txconfirm"

type Server struct {
	handler       *rpc.Server
	listenAddress string
}

// NewServer registers api under the txconfirm namespace.
func NewServer(api *ApiHandler, port int) (*Server, error) {
	handler := rpc.NewServer()
	if err := handler.RegisterName(Namespace, api); err != nil {
		return nil, err
	}

	return &Server{
		handler:       handler,
		listenAddress: fmt.Sprintf("0.0.0.0:%d", port),
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Run() {
	listener, err := net.Listen("tcp", s.listenAddress)
	if err != nil {
		panic(err)
	}

	srv := &http.Server{Handler: s.handler}
	log.Info("Running server at", s.listenAddress)
	srv.Serve(listener)
}
