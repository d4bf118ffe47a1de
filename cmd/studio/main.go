package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"social-studio/internal/adapter/agent"
	"social-studio/internal/adapter/drafts"
	"social-studio/internal/adapter/tui/studio"
	"social-studio/internal/domain"
	"social-studio/internal/infra/config"
	"social-studio/internal/infra/logger"
	"social-studio/internal/infra/tracer"
	"social-studio/internal/usecase"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "--help", "-h", "help":
			showUsage()
			return
		case "--version", "-v":
			fmt.Println("studio " + version)
			return
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`studio - Terminal client for the social content agent

USAGE:
    studio [FLAGS]

FLAGS:
    -h, --help         Show this help message
    -v, --version      Print the version and exit
    --config PATH      Config file path (default: ./config.yaml)

CONFIGURATION:
    Config file: ./config.yaml (optional, defaults apply when missing)
    Environment: STUDIO_* variables override config
                 STUDIO_BACKEND_URL, STUDIO_LOGGER_LEVEL, STUDIO_DRAFTS_PATH, ...

EXAMPLES:
    studio                               # Connect to http://localhost:8000
    studio --config ~/studio.yaml        # Run with custom config
    STUDIO_BACKEND_URL=http://10.0.0.5:8000 studio

Inside the TUI, type /help for commands and key bindings.`)
}

func run() error {
	// 1. Config
	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// 2. Logger & Tracer. The logger writes to a file so it cannot fight
	// the TUI for the terminal.
	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser()

	ctx := context.Background()
	tracerShutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return fmt.Errorf("tracer: %w", err)
	}
	defer tracerShutdown(ctx)

	// 3. Backend client
	backend := agent.New(cfg.Backend, log)

	// 4. Draft store
	store, err := drafts.NewSQLiteDraftStore(cfg.Drafts.Path)
	if err != nil {
		return fmt.Errorf("drafts: %w", err)
	}
	defer store.Close()

	// 5. Studio facade
	st := usecase.NewStudio(usecase.StudioDeps{
		Agent:         backend,
		Drafts:        store,
		Exporter:      usecase.NewExporter(cfg.Export.Dir),
		Logger:        log,
		FlushInterval: cfg.Session.FlushInterval,
		Limits: usecase.SessionLimits{
			MaxContentBytes:   cfg.Session.MaxContentBytes,
			MaxReasoningBytes: cfg.Session.MaxReasoningBytes,
			MaxToolEvents:     cfg.Session.MaxToolEvents,
			PhaseTailWindow:   cfg.Session.PhaseTailWindow,
		},
	})

	// 6. Graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 7. TUI
	log.Info("studio starting",
		"backend", cfg.Backend.BaseURL,
		"drafts", cfg.Drafts.Path,
		"version", version,
	)

	prog := studio.NewProgram(studio.ModelDeps{
		Studio:   st,
		Logger:   log,
		Defaults: requestDefaults(cfg.Defaults),
		Backend:  backendHost(cfg.Backend.BaseURL),
		Version:  version,
	})

	err = prog.Start(ctx)
	st.Stop()
	return err
}

// requestDefaults maps the config defaults onto a request scaffold. The
// scaffold's Message stays empty; the composer fills it per submission.
func requestDefaults(rc config.RequestConfig) domain.GenerateRequest {
	req := domain.GenerateRequest{
		Platforms:        rc.Platforms,
		ContentType:      rc.ContentType,
		Language:         rc.Language,
		ReasoningEffort:  rc.ReasoningEffort,
		ReasoningSummary: rc.ReasoningSummary,
	}
	req.Normalize()
	return req
}

// backendHost extracts the host for status bar display.
func backendHost(baseURL string) string {
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		return u.Host
	}
	return baseURL
}

func configPath() string {
	// Check --config flag in os.Args.
	for i, arg := range os.Args {
		if arg == "--config" && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	if p := os.Getenv("STUDIO_CONFIG"); p != "" {
		return p
	}
	return "config.yaml"
}
