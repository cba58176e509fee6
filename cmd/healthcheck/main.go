// Command healthcheck exits 0 when the server's gRPC health service reports
// SERVING. It is meant for container health checks.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/EgehanKilicarslan/stockboard/backend-go/internal/config"
	internalgrpc "github.com/EgehanKilicarslan/stockboard/backend-go/internal/grpc"
)

func main() {
	cfg := config.LoadConfig()

	addr := fmt.Sprintf("localhost:%s", cfg.ApiGrpcPort)
	if len(os.Args) > 1 {
		addr = os.Args[1]
	}

	client, err := internalgrpc.NewClient(addr, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, "healthcheck:", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Check(ctx, internalgrpc.ServiceName); err != nil {
		fmt.Fprintln(os.Stderr, "healthcheck:", err)
		os.Exit(1)
	}
}
