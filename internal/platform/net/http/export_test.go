package http

import (
	"context"
	"net"
)

// ServeForTest runs the server on a listener the test already opened
func ServeForTest(ctx context.Context, s *Server, ln net.Listener) error { return s.serve(ctx, ln) }
