package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ironsheep/image-engine/internal/config"
	"github.com/ironsheep/image-engine/internal/engine"
	"github.com/ironsheep/image-engine/internal/logging"
	"github.com/ironsheep/image-engine/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-engine %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("image-engine - MCP server for image processing")
			fmt.Println()
			fmt.Println("Usage: image-engine [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  IMAGE_ENGINE_LOG_LEVEL=info                  debug, info, warn or error")
			fmt.Println("  IMAGE_ENGINE_WORKERS=0                       Worker count (0 = GOMAXPROCS)")
			fmt.Println("  IMAGE_ENGINE_QUEUE_SIZE=64                   Pending task limit")
			fmt.Println("  IMAGE_ENGINE_DEFAULT_QUALITY=90              JPEG/WebP quality when unset")
			fmt.Println("  IMAGE_ENGINE_MOSAIC_PARALLEL_THRESHOLD=4     Placements before mosaic goes parallel")
			fmt.Println("  IMAGE_ENGINE_AUTO_ORIENT=false               Apply EXIF orientation on decode")
			fmt.Println("  IMAGE_ENGINE_MAX_REQUEST_BYTES=67108864      Largest accepted request line")
			fmt.Println("  IMAGE_ENGINE_MAX_PIXELS=268435456            Largest input or output image in pixels")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	conf, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "image-engine: %v\n", err)
		os.Exit(2)
	}

	// Logging goes to stderr; stdout is for MCP protocol.
	logger := logging.New(conf.LogLevel)
	defer func() { _ = logger.Sync() }()

	logger.Debug("image engine starting",
		zap.String("version", Version),
		zap.String("buildTime", BuildTime),
		zap.String("commit", GitCommit))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := engine.New(engine.Options{
		Workers:                 conf.Workers,
		QueueSize:               conf.QueueSize,
		DefaultQuality:          conf.DefaultQuality,
		MosaicParallelThreshold: conf.MosaicParallelThreshold,
		AutoOrient:              conf.AutoOrient,
		MaxPixels:               conf.MaxPixels,
	}, logger.Named("engine"))
	defer eng.Close()

	srv := server.New(eng, logger.Named("server"), server.Options{
		MaxRequestBytes: conf.MaxRequestBytes,
		Version:         Version,
	})
	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", zap.Error(err))
		eng.Close()
		_ = logger.Sync()
		os.Exit(1)
	}
}
