package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"estatewatch/config"
	"estatewatch/estatesales"
	"estatewatch/geocode"
	"estatewatch/notify"
	"estatewatch/run"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to optional YAML config (or ESTATEWATCH_CONFIG)")
		envFile    = flag.String("env", "", "Path to .env file (default: .env in cwd)")
		preview    = flag.Bool("preview", false, "Print the message instead of sending, even with credentials set")
	)
	flag.Parse()

	if *envFile != "" {
		_ = godotenv.Load(*envFile)
	} else {
		_ = godotenv.Load()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := newLogger(cfg.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline := &run.Pipeline{
		BaseURL:    cfg.BaseURL,
		Reference:  cfg.Reference,
		MaxMiles:   cfg.MaxMiles,
		Recipients: cfg.Recipients,
		Fetcher:    newFetcher(cfg),
		Resolver:   geocode.NewResolver(geocode.NewNominatim()),
		Dispatcher: notify.NewDispatcher(newTransport(cfg, *preview), logger),
		Logger:     logger,
	}

	report := pipeline.Run(ctx)
	if report.Stage == run.StageFailed {
		logger.Error("run failed", "error", report.Err)
		os.Exit(1)
	}

	fmt.Printf("pages=%d listings=%d kept=%d dropped=%d too_far=%d sent=%d skipped=%d failed=%d elapsed=%s\n",
		report.Pages, report.Parsed, report.Kept, report.Dropped, report.TooFar,
		report.Sent, report.Skipped, report.Failed, report.Elapsed.Round(time.Millisecond))
}

func newLogger(logJSON bool) *slog.Logger {
	if logJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		TimeFormat: "15:04:05",
	}))
}

func newFetcher(cfg *config.Config) *estatesales.Client {
	opts := []estatesales.Option{
		estatesales.WithMaxPages(cfg.MaxPages),
		estatesales.WithPageConcurrency(cfg.PageConcurrency),
		estatesales.WithMinInterval(time.Duration(cfg.MinIntervalMS) * time.Millisecond),
		estatesales.WithRetryConfig(estatesales.RetryConfig{
			MaxAttempts: cfg.RetryAttempts,
			BaseDelay:   time.Duration(cfg.RetryBaseMS) * time.Millisecond,
			MaxDelay:    time.Duration(cfg.RetryMaxMS) * time.Millisecond,
			StatusCodes: retryStatusCodes(),
		}),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, estatesales.WithUserAgent(cfg.UserAgent))
	}
	return estatesales.NewClient(opts...)
}

func retryStatusCodes() map[int]struct{} {
	return map[int]struct{}{
		429: {},
		500: {},
		502: {},
		503: {},
		504: {},
	}
}

// newTransport picks the delivery mechanism from configuration: SMTP gateway
// when mail settings are present, SMS API otherwise, preview when neither is.
func newTransport(cfg *config.Config, preview bool) notify.Transport {
	if preview {
		return nil
	}
	if cfg.SMTPConfigured() {
		port := cfg.SMTP.Port
		if port == 0 {
			port = 587
		}
		return notify.NewSMTPGateway(cfg.SMTP.Host, port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	}
	if cfg.SMSConfigured() {
		return notify.NewSMSClient(cfg.SMS.APIURL, cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.From)
	}
	return nil
}
