// Package engine wraps the Docker API client for post-install checks. The
// installer itself drives the runtime through its CLI only; this client is
// used by `sentinelctl doctor` to inspect the engine and the Sentinel
// container without parsing CLI output.
package engine

import (
	"context"
	"fmt"

	"github.com/docker/docker/client"
)

// Client is a thin wrapper over the Docker SDK client.
type Client struct {
	cli *client.Client
}

// New connects using the standard environment (DOCKER_HOST etc.) with API
// version negotiation.
func New() (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("creating docker client: %w", err)
	}
	return &Client{cli: cli}, nil
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.cli.Close()
}

// ServerVersion pings the engine and returns its version string.
func (c *Client) ServerVersion(ctx context.Context) (string, error) {
	v, err := c.cli.ServerVersion(ctx)
	if err != nil {
		return "", fmt.Errorf("engine not reachable: %w", err)
	}
	return v.Version, nil
}

// ContainerState describes the observed state of the named container.
type ContainerState struct {
	Exists  bool
	Running bool
	Status  string // e.g. "running", "exited"
	Health  string // e.g. "healthy", "starting"; empty when no probe reported yet
}

// Inspect returns the state of the named container. A missing container is
// not an error.
func (c *Client) Inspect(ctx context.Context, name string) (ContainerState, error) {
	info, err := c.cli.ContainerInspect(ctx, name)
	if client.IsErrNotFound(err) {
		return ContainerState{}, nil
	}
	if err != nil {
		return ContainerState{}, fmt.Errorf("inspecting container %s: %w", name, err)
	}

	st := ContainerState{Exists: true}
	if info.State != nil {
		st.Running = info.State.Running
		st.Status = info.State.Status
		if info.State.Health != nil {
			st.Health = info.State.Health.Status
		}
	}
	return st, nil
}
