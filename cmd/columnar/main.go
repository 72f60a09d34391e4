// Command columnar generates, inspects, exports and publishes columnar
// encoded event data.
//
//	columnar generate --rows 1000000 --chunk-rows 250000 --out data/
//	columnar inspect data/events-00000.clmn --head 3
//	columnar export data/events-00000.clmn --format parquet
//	columnar publish data/*.clmn --config columnar.yaml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
