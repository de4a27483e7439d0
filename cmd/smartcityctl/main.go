// smartcityctl is the citizen and admin client for the complaints API: it
// files reports, moves complaints through their lifecycle, prints stats and
// renders map layers. A local demo dataset works without a server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jengzang/smartcity-backend-go/internal/logger"
)

func main() {
	logger.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
