package valkeytest

import (
	"context"
	"net"

	"github.com/docker/go-connections/nat"
	"github.com/valkey-io/valkey-go"

	valkeycontainer "github.com/testcontainers/testcontainers-go/modules/valkey"
	slogctx "github.com/veqryn/slog-context"
)

const image = "valkey/valkey:8-alpine"

// Start runs a ValKey container and returns a client, the mapped port, and a termination function.
// The client is closed by the termination function.
func Start(ctx context.Context) (valkey.Client, nat.Port, func(ctx context.Context)) {
	container, err := valkeycontainer.Run(ctx, image)
	if err != nil {
		slogctx.Error(ctx, "Failed to start ValKey container", "error", err)
		panic(err)
	}

	port, err := container.MappedPort(ctx, nat.Port("6379"))
	if err != nil {
		slogctx.Error(ctx, "Failed to map a port for the ValKey container", "error", err)
		panic(err)
	}

	client, err := NewClient(port)
	if err != nil {
		slogctx.Error(ctx, "Failed to initialise a ValKey client", "error", err)
		panic(err)
	}

	terminate := func(ctx context.Context) {
		client.Close()

		if err := container.Terminate(ctx); err != nil {
			slogctx.Error(ctx, "Failed to terminate ValKey container", "error", err)
			panic(err)
		}
	}

	return client, port, terminate
}

// NewClient connects a new client to a ValKey listening on localhost at the given port.
func NewClient(port nat.Port) (valkey.Client, error) {
	return valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{net.JoinHostPort("localhost", port.Port())},
	})
}
