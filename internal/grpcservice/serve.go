package grpcservice

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/soheilhy/cmux"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
)

// Serve serves the gRPC service and its HTTP/1.1 status endpoint on ln
// until ctx is done. Both protocols share the listener through cmux.
func Serve(ctx context.Context, ln net.Listener, s *Service) error {
	m := cmux.New(ln)
	grpcL := m.MatchWithWriters(cmux.HTTP2MatchHeaderFieldSendSettings("content-type", "application/grpc"))
	httpL := m.Match(cmux.HTTP1Fast())

	handler, err := s.HTTPHandler()
	if err != nil {
		_ = ln.Close()
		return err
	}
	gs := grpc.NewServer()
	Register(gs, s)
	hs := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 3)
	go func() { errc <- gs.Serve(grpcL) }()
	go func() { errc <- hs.Serve(httpL) }()
	go func() { errc <- m.Serve() }()

	select {
	case <-ctx.Done():
	case err = <-errc:
		slog.Error("ipc server stopped", "err", err)
	}
	gs.Stop()
	_ = hs.Close()
	_ = ln.Close()
	return err
}

// HTTPHandler returns the grpc-gateway mux serving GET /status (JSON) and
// GET /clipboard (plain text; the display query parameter selects a
// clipboard).
func (s *Service) HTTPHandler() (http.Handler, error) {
	marshaler := &gwruntime.JSONPb{MarshalOptions: protojson.MarshalOptions{UseProtoNames: true}}
	mux := gwruntime.NewServeMux(gwruntime.WithMarshalerOption(gwruntime.MIMEWildcard, marshaler))

	err := mux.HandlePath(http.MethodGet, "/status", func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		st, err := s.status()
		if err != nil {
			gwruntime.HTTPError(r.Context(), mux, marshaler, w, r, status.Error(codes.Internal, err.Error()))
			return
		}
		b, err := marshaler.Marshal(st)
		if err != nil {
			gwruntime.HTTPError(r.Context(), mux, marshaler, w, r, status.Error(codes.Internal, err.Error()))
			return
		}
		w.Header().Set("Content-Type", marshaler.ContentType(st))
		_, _ = w.Write(b)
	})
	if err != nil {
		return nil, err
	}

	err = mux.HandlePath(http.MethodGet, "/clipboard", func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		var (
			v   string
			err error
		)
		if display := r.URL.Query().Get("display"); display != "" {
			v, err = s.h.Get(display)
		} else {
			v, _ = s.h.Latest()
		}
		if err != nil {
			http.Error(w, err.Error(), gwruntime.HTTPStatusFromCode(status.Code(toStatus(err))))
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(v))
	})
	if err != nil {
		return nil, err
	}
	return mux, nil
}
