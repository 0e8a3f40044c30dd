package healthz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/caas-team/readygate/internal/logger"
	"github.com/caas-team/readygate/pkg/shell"
)

// Checker queries a running shell
type Checker interface {
	// CheckOverallHealth returns true if the shell is serving and,
	// when requireReady is set, the backend passed the readiness check
	CheckOverallHealth(ctx context.Context, requireReady bool) bool
	// Status returns the state reported by the shell
	Status(ctx context.Context) (shell.Status, error)
}

// checker is used to check the health of the shell's endpoints
type checker struct {
	addr   string
	client *http.Client
}

// New creates a new healthz checker
// address is the address of the API
func New(address string) Checker {
	return &checker{
		addr:   formatAddress(address),
		client: &http.Client{},
	}
}

func (c *checker) CheckOverallHealth(ctx context.Context, requireReady bool) bool {
	log := logger.FromContext(ctx)
	if !c.isMetricsHealthy(ctx) {
		log.Warn("Shell is not serving")
		return false
	}
	if !requireReady {
		return true
	}

	st, err := c.Status(ctx)
	if err != nil {
		log.Error("Failed to get shell status", "error", err)
		return false
	}
	if st.State != shell.StateReady {
		log.Warn("Shell is not ready", "state", st.State, "category", st.Category, "reason", st.Reason)
		return false
	}
	return true
}

// isMetricsHealthy checks if the metrics endpoint is healthy
func (c *checker) isMetricsHealthy(ctx context.Context) bool {
	log := logger.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://%s/metrics", c.addr), http.NoBody)
	if err != nil {
		log.Error("Failed to create request", "error", err)
		return false
	}

	resp, err := c.client.Do(req) //nolint:bodyclose // closed in defer
	if err != nil {
		return false
	}
	defer closeBody(ctx, resp.Body)

	return resp.StatusCode == http.StatusOK
}

func (c *checker) Status(ctx context.Context) (shell.Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://%s/v1/status", c.addr), http.NoBody)
	if err != nil {
		return shell.Status{}, err
	}

	resp, err := c.client.Do(req) //nolint:bodyclose // closed in defer
	if err != nil {
		return shell.Status{}, err
	}
	defer closeBody(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return shell.Status{}, fmt.Errorf("request failed, status is %s", resp.Status)
	}

	var st shell.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return shell.Status{}, fmt.Errorf("failed to decode status: %w", err)
	}
	return st, nil
}

func closeBody(ctx context.Context, b io.ReadCloser) {
	if err := b.Close(); err != nil {
		logger.FromContext(ctx).Error("Failed to close response body", "error", err)
	}
}

// formatAddress formats the address to be used in the healthz checker
func formatAddress(addr string) string {
	// Localhost is a special case, since it's the only address that doesn't need to be formatted
	if addr == "localhost" || addr == "127.0.0.1" || addr == net.IPv6loopback.String() {
		return addr
	}

	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return net.JoinHostPort("localhost", "8080")
	}

	return net.JoinHostPort("localhost", port)
}
