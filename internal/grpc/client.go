package grpc

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
)

// Client talks to a running server's health service
type Client struct {
	Health grpc_health_v1.HealthClient
	conn   *grpc.ClientConn
}

// NewClient creates a health client; the connection is established lazily
func NewClient(addr string, useTLS bool, extra ...grpc.DialOption) (*Client, error) {
	var opts []grpc.DialOption
	if useTLS {
		tlsConfig := &tls.Config{
			InsecureSkipVerify: false,
		}
		opts = append(opts, grpc.WithTransportCredentials(credentials.NewTLS(tlsConfig)))
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	opts = append(opts, grpc.WithKeepaliveParams(keepalive.ClientParameters{
		Time:                30 * time.Second,
		Timeout:             10 * time.Second,
		PermitWithoutStream: false,
	}))

	conn, err := grpc.NewClient(addr, append(opts, extra...)...)
	if err != nil {
		return nil, err
	}

	return &Client{
		Health: grpc_health_v1.NewHealthClient(conn),
		conn:   conn,
	}, nil
}

// Check asks for the status of service ("" for the whole server) and
// returns an error unless it is SERVING.
func (c *Client) Check(ctx context.Context, service string) error {
	resp, err := c.Health.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		return err
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		return fmt.Errorf("service %q is %s", service, resp.GetStatus())
	}
	return nil
}

// Close closes the gRPC connection
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
