// Package grpcservice implements the clipsync.v1.Clipboard gRPC service the
// sync daemon serves on its IPC socket, and the matching client.
//
// Messages are protobuf well-known types, so no generated code is needed:
//
//	Get(Empty) StringValue   read a display, or the last synced value
//	Set(StringValue) Empty   write a display, or every clipboard
//	Status(Empty) Struct     managed clipboards and the last sync source
//
// The target display travels in the x-clipsync-display metadata key.
package grpcservice

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"go.klb.dev/clipsync/internal/clip"
	"go.klb.dev/clipsync/internal/hub"
)

// Metadata keys.
const (
	DisplayKey = "x-clipsync-display"
	SourceKey  = "x-clipsync-source"
)

// Service implements ClipboardServer on top of a hub.
type Service struct {
	h *hub.Hub
}

// New returns a Service backed by h.
func New(h *hub.Hub) *Service {
	return &Service{h: h}
}

// Get implements ClipboardServer.Get.
func (s *Service) Get(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	display := fromMD(ctx, DisplayKey)
	if display == "" {
		v, _ := s.h.Latest()
		return wrapperspb.String(v), nil
	}
	v, err := s.h.Get(display)
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.String(v), nil
}

// Set implements ClipboardServer.Set.
func (s *Service) Set(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	display := fromMD(ctx, DisplayKey)
	src := sourceFromCtx(ctx)
	if display == "" {
		s.h.Publish(req.GetValue(), src)
		return &emptypb.Empty{}, nil
	}
	if err := s.h.Set(display, req.GetValue()); err != nil {
		return nil, toStatus(err)
	}
	slog.Debug("ipc: clipboard set", "display", display, "source", src)
	return &emptypb.Empty{}, nil
}

// Status implements ClipboardServer.Status.
func (s *Service) Status(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	st, err := s.status()
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return st, nil
}

func (s *Service) status() (*structpb.Struct, error) {
	infos := s.h.Clipboards()
	cbs := make([]any, len(infos))
	for i, in := range infos {
		cbs[i] = map[string]any{
			"display": in.Display,
			"backend": in.Backend,
			"rank":    int(in.Rank),
			"poll":    in.Poll,
		}
	}
	_, src := s.h.Latest()
	return structpb.NewStruct(map[string]any{
		"latest_source": src,
		"clipboards":    cbs,
	})
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, hub.ErrUnknownDisplay):
		return status.Error(codes.NotFound, err.Error())
	case clip.IsRetryable(err):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func fromMD(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get(key); len(vals) > 0 {
			return vals[0]
		}
	}
	return ""
}

func sourceFromCtx(ctx context.Context) string {
	if src := fromMD(ctx, SourceKey); src != "" {
		return src
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil && p.Addr.String() != "" {
		return "ipc:" + p.Addr.String()
	}
	return "ipc"
}
