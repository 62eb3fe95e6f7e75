package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"tasktracker/internal/config"
	"tasktracker/internal/logging"
	"tasktracker/internal/server"
	"tasktracker/internal/session"
	"tasktracker/internal/store"
	"tasktracker/internal/task"
	"tasktracker/internal/tui"
	"tasktracker/pkg/mq"
)

func main() {
	mode := flag.String("mode", "help", "help|server|tui")
	confPath := flag.String("config", "tasktracker.env", "dotenv file with TASKTRACKER_* settings")
	httpAddr := flag.String("http-addr", "", "http listen address (server mode, overrides config)")
	logLevel := flag.String("log-level", "", "DEBUG|INFO|WARN|ERROR (overrides config)")
	logFile := flag.String("log-file", "", "write logs to this file instead of stderr")
	archiveDSN := flag.String("archive-dsn", "", "MySQL DSN for the task event archive (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*confPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *archiveDSN != "" {
		cfg.ArchiveDSN = *archiveDSN
	}

	var w io.Writer = os.Stderr
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	} else if *mode == "tui" {
		// the terminal belongs to the program
		w = io.Discard
	}
	logger := logging.NewLogger(logging.Options{Writer: w, Level: cfg.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pub mq.Publisher = mq.Noop{}
	if cfg.ArchiveDSN != "" && (*mode == "server" || *mode == "tui") {
		archive, err := store.New(cfg.ArchiveDSN)
		if err != nil {
			logger.Fatal("archive", "err", err)
		}
		defer archive.Close()
		pub = archive
		logger.Info("archiving task events to mysql")
	}

	switch *mode {
	case "server":
		sessions := session.NewManager(cfg.SessionTTL, session.WithLogger(logger))
		go sessions.Run(ctx, cfg.SweepInterval)

		srv := server.New(sessions,
			server.WithPublisher(pub),
			server.WithLogger(logger),
			server.WithShutdownTimeout(cfg.ShutdownTimeout),
		)
		if err := srv.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
			logger.Fatal("server", "err", err)
		}

	case "tui":
		if err := tui.Run(task.NewStore(), tui.WithPublisher(pub), tui.WithLogger(logger)); err != nil {
			logger.Fatal("tui", "err", err)
		}

	default:
		fmt.Println("Usage examples:")
		fmt.Println("  go run ./cmd --mode server --http-addr :8080")
		fmt.Println("  go run ./cmd --mode tui")
		fmt.Println("  go run ./cmd --mode server --archive-dsn 'user:pass@tcp(127.0.0.1:3306)/tasktracker'")
	}
}
