// Command ideaeval scores a conversation snapshot read as JSON from a file or
// stdin and prints the report. With -serve it instead listens for snapshots
// on POST /evaluate and exposes /metrics.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/snow-ghost/ideation/pkg/cache"
	"github.com/snow-ghost/ideation/pkg/config"
	"github.com/snow-ghost/ideation/pkg/evaluator"
	"github.com/snow-ghost/ideation/pkg/limiter"
	"github.com/snow-ghost/ideation/pkg/observability"
	"github.com/snow-ghost/ideation/pkg/tokens"
	"github.com/snow-ghost/ideation/pkg/viability"
)

const maxSnapshotBytes = 8 << 20

func main() {
	app := loadAppConfig()

	flag.StringVar(&app.ConfigPath, "config", app.ConfigPath, "engine configuration YAML")
	flag.StringVar(&app.Encoding, "encoding", app.Encoding, `token encoding: "chars" or a tiktoken encoding (tiktoken counts no longer follow the len/4 budget estimate)`)
	flag.StringVar(&app.ServeAddr, "serve", app.ServeAddr, "listen address for /evaluate and /metrics")
	flag.Parse()

	obs, err := observability.NewManager(observability.Config{
		ServiceName:    "ideaeval",
		ServiceVersion: "0.1.0",
		Environment:    app.Environment,
		JaegerEndpoint: app.JaegerEndpoint,
		LogLevel:       app.LogLevel,
		LogFormat:      app.LogFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize observability: %v\n", err)
		os.Exit(1)
	}

	runErr := run(app, obs, flag.Args())
	if runErr != nil {
		obs.GetLogger().Error("ideaeval failed", "error", runErr.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := obs.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}

	if runErr != nil {
		os.Exit(1)
	}
}

func run(app *appConfig, obs *observability.Manager, args []string) error {
	ev, err := buildEvaluator(app, obs)
	if err != nil {
		return err
	}

	if app.ServeAddr != "" {
		return serve(app, ev, obs)
	}

	in := io.Reader(os.Stdin)
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open snapshot: %w", err)
		}
		defer f.Close()
		in = f
	}

	snap, err := decodeSnapshot(in)
	if err != nil {
		return err
	}

	report, err := ev.Evaluate(context.Background(), snap)
	if err != nil {
		return err
	}

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	return out.Encode(report)
}

func buildEvaluator(app *appConfig, obs *observability.Manager) (*evaluator.Evaluator, error) {
	cfg, err := config.NewLoader(app.ConfigPath).Load()
	if err != nil {
		return nil, err
	}

	if !tokens.IsCharEstimate(app.Encoding) {
		obs.GetLogger().Warn("Token encoding departs from the len/4 budget estimate",
			"encoding", app.Encoding)
	}
	enc, err := tokens.NewEncoder(app.Encoding)
	if err != nil {
		return nil, err
	}
	counts, err := cache.NewTokenCache(enc, &cache.CacheConfig{MaxSize: app.CacheSize})
	if err != nil {
		return nil, err
	}
	counts.SetObserver(obs.GetMetrics())

	return evaluator.New(evaluator.Options{
		Config:  cfg,
		Risks:   viability.NewRiskFactory(),
		Encoder: counts,
		Logger:  obs.GetLogger(),
		Metrics: obs.GetMetrics(),
		Tracer:  obs.GetTracer(),
	}), nil
}

func decodeSnapshot(r io.Reader) (evaluator.Snapshot, error) {
	var snap evaluator.Snapshot
	if err := json.NewDecoder(io.LimitReader(r, maxSnapshotBytes)).Decode(&snap); err != nil {
		return snap, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

func newMux(ev *evaluator.Evaluator, obs *observability.Manager, lim *limiter.RateLimiter) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", obs.GetMetrics().Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/evaluate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		snap, err := decodeSnapshot(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx := observability.WithSessionID(r.Context(), snap.SessionID)
		if !lim.Allow(limitKey(r, snap)) {
			obs.GetMetrics().RecordRateLimited()
			obs.SessionLogger(ctx).Warn("Evaluation rate limited")
			http.Error(w, "too many evaluations for this session", http.StatusTooManyRequests)
			return
		}

		report, err := ev.Evaluate(ctx, snap)
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(report)
	})
	return mux
}

// limitKey buckets requests by session, falling back to the client address
// for snapshots that carry no session id.
func limitKey(r *http.Request, snap evaluator.Snapshot) string {
	if snap.SessionID != "" {
		return "session:" + snap.SessionID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "addr:" + host
}

func serve(app *appConfig, ev *evaluator.Evaluator, obs *observability.Manager) error {
	lim, err := limiter.NewRateLimiter(limiter.Limits{
		RequestsPerMinute: app.SessionRPM,
		Burst:             app.SessionBurst,
		MaxSessions:       app.MaxSessions,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: app.ServeAddr, Handler: newMux(ev, obs, lim), ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		obs.GetLogger().Info("ideaeval listening", "addr", app.ServeAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
