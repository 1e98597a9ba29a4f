package grpcservice

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls the clipsync.v1.Clipboard service.
type Client struct {
	cc     grpc.ClientConnInterface
	source string
}

// NewClient returns a Client over cc. source identifies the caller in the
// daemon's logs and may be empty.
func NewClient(cc grpc.ClientConnInterface, source string) *Client {
	return &Client{cc: cc, source: source}
}

// Dial returns a connection to target. No auth is needed: the IPC socket is
// local and owner-restricted.
func Dial(target string) (*grpc.ClientConn, error) {
	return grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
}

// Get reads display's clipboard, or the last synced value if display is "".
func (c *Client) Get(ctx context.Context, display string) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(c.outgoing(ctx, display), methodGet, &emptypb.Empty{}, out); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

// Set writes value to display's clipboard, or to every clipboard if display
// is "".
func (c *Client) Set(ctx context.Context, display, value string) error {
	return c.cc.Invoke(c.outgoing(ctx, display), methodSet, wrapperspb.String(value), new(emptypb.Empty))
}

// Status returns the daemon's clipboards and last sync source.
func (c *Client) Status(ctx context.Context) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(c.outgoing(ctx, ""), methodStatus, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) outgoing(ctx context.Context, display string) context.Context {
	var kv []string
	if display != "" {
		kv = append(kv, DisplayKey, display)
	}
	if c.source != "" {
		kv = append(kv, SourceKey, c.source)
	}
	if len(kv) == 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, kv...)
}
