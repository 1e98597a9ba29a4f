package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"

	"go.klb.dev/clipsync/internal/discover"
	"go.klb.dev/clipsync/internal/grpcservice"
	"go.klb.dev/clipsync/internal/hub"
	"go.klb.dev/clipsync/internal/ipc"
)

// daemon is a connection to the running sync daemon.
type daemon struct {
	*grpcservice.Client
	close func() error
}

// dialDaemon connects to the sync daemon over the IPC socket. ok is false
// when no daemon is running or useDaemon is false.
func dialDaemon(useDaemon bool) (d *daemon, ok bool, err error) {
	if !useDaemon || !ipc.IsRunning() {
		return nil, false, nil
	}
	conn, err := grpcservice.Dial(ipc.Target())
	if err != nil {
		return nil, false, fmt.Errorf("dial daemon: %w", err)
	}
	return &daemon{Client: grpcservice.NewClient(conn, cliSource()), close: conn.Close}, true, nil
}

// localHub discovers this host's clipboards for commands run without a
// daemon. The hub is never run; it only routes one get or set.
func localHub(v *viper.Viper, log *slog.Logger) (*hub.Hub, error) {
	opts, err := discoverOptions(v, log)
	if err != nil {
		return nil, err
	}
	cbs, err := discover.Discover(opts)
	if err != nil {
		return nil, err
	}
	return hub.New(cbs, log), nil
}

// rpcTimeout bounds a single request to the daemon.
const rpcTimeout = 10 * time.Second

func cliSource() string {
	return fmt.Sprintf("cli:%d", os.Getpid())
}
