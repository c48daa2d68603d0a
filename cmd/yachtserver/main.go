// Command yachtserver runs the yachtcore REST/WebSocket API server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/yourusername/yachtcore/pkg/api"
	"github.com/yourusername/yachtcore/pkg/yacht"
)

const version = "0.1.0"

func main() {
	host := flag.String("host", "localhost", "Host to bind to (use 0.0.0.0 for all interfaces)")
	port := flag.Int("port", 8080, "Port to listen on")
	tablePath := flag.String("table", "data/dp_table.bin", "Path to the expected-score DP table")
	cacheSize := flag.Int("cache-size", yacht.DefaultCacheSize, "Evaluation cache capacity (0 = default, negative = disabled)")
	maxFastWorkers := flag.Int("max-fast-workers", 100, "Max concurrent fast operations")
	maxSlowWorkers := flag.Int("max-slow-workers", 4, "Max concurrent slow operations")
	readTimeout := flag.Duration("read-timeout", 30*time.Second, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	allowRebuild := flag.Bool("allow-rebuild", false, "Enable the live table-rebuild SSE endpoint")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("yachtserver v%s\n", version)
		os.Exit(0)
	}

	log.Printf("yachtserver v%s", version)
	log.Printf("loading dp table from %s", *tablePath)

	eng, err := yacht.NewEngine(yacht.EngineOptions{
		TablePath: *tablePath,
		CacheSize: *cacheSize,
	})
	if err != nil {
		log.Fatalf("failed to create engine: %v", err)
	}

	log.Printf("engine ready")

	config := api.ServerConfig{
		Host:           *host,
		Port:           *port,
		ReadTimeout:    *readTimeout,
		WriteTimeout:   *writeTimeout,
		IdleTimeout:    60 * time.Second,
		MaxFastWorkers: *maxFastWorkers,
		MaxSlowWorkers: *maxSlowWorkers,
		AllowRebuild:   *allowRebuild,
	}

	server := api.NewServer(eng, config, version)

	if err := server.ListenAndServeWithGracefulShutdown(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
