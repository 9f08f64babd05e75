package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"

	"ferrytimetable.org/internal/app"
	"ferrytimetable.org/internal/appconf"
	"ferrytimetable.org/internal/logging"
	"ferrytimetable.org/internal/restapi"
	"ferrytimetable.org/internal/webui"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	logger := logging.NewStructuredLogger(out, cfg.Log.SlogLevel())
	slog.SetDefault(logger)

	application := app.New(cfg, logger)
	defer logging.SafeCloseWithLogging(application, logger, "close_application")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The dataset opens lazily; a failed ping is reported but the server
	// still starts and answers with empty results until the file appears.
	if err := application.Store.Ping(ctx); err != nil {
		logging.LogError(logger, "timetable dataset unavailable", err,
			slog.String("path", cfg.Dataset.Path))
	}

	api := restapi.NewRestAPI(application)
	var extraRoutes []func(*httprouter.Router)
	if cfg.Environment() == appconf.Development {
		extraRoutes = append(extraRoutes, webui.New(application).SetRoutes)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.Handler(extraRoutes...),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Environment().String())
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// loadConfig reads the optional -config file and applies any flags given
// explicitly on the command line on top of it.
func loadConfig(args []string) (appconf.Config, error) {
	fs := flag.NewFlagSet("api", flag.ContinueOnError)

	var (
		configPath   string
		port         int
		env          string
		apiKeys      string
		rateLimit    int
		datasetPath  string
		durationUnit string
		logLevel     string
	)

	defaults := appconf.Default()
	fs.StringVar(&configPath, "config", "", "Path to a YAML config file")
	fs.IntVar(&port, "port", defaults.Server.Port, "API server port")
	fs.StringVar(&env, "env", defaults.Server.Env, "Environment (development|test|production)")
	fs.StringVar(&apiKeys, "api-keys", strings.Join(defaults.Server.ApiKeys, ","), "Comma separated API keys")
	fs.IntVar(&rateLimit, "rate-limit", defaults.Server.RateLimit, "Requests per second per API key (0 disables limiting)")
	fs.StringVar(&datasetPath, "dataset", defaults.Dataset.Path, "Path to the timetable dataset")
	fs.StringVar(&durationUnit, "duration-unit", defaults.Dataset.DurationUnit, "Unit of digit-only durations (seconds|minutes)")
	fs.StringVar(&logLevel, "log-level", defaults.Log.Level, "Log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		return appconf.Config{}, err
	}

	cfg, err := appconf.Load(configPath)
	if err != nil {
		return appconf.Config{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = port
		case "env":
			cfg.Server.Env = env
		case "api-keys":
			cfg.Server.ApiKeys = splitKeys(apiKeys)
		case "rate-limit":
			cfg.Server.RateLimit = rateLimit
		case "dataset":
			cfg.Dataset.Path = datasetPath
		case "duration-unit":
			cfg.Dataset.DurationUnit = durationUnit
		case "log-level":
			cfg.Log.Level = logLevel
		}
	})

	return cfg, cfg.Validate()
}

func splitKeys(value string) []string {
	var keys []string
	for _, key := range strings.Split(value, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
