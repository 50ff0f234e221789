package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/procomfort/procomfort-quote/internal/catalog"
	"github.com/procomfort/procomfort-quote/internal/cfg"
	"github.com/procomfort/procomfort-quote/internal/health"
	"github.com/procomfort/procomfort-quote/internal/httpmw"
	"github.com/procomfort/procomfort-quote/internal/httpserver"
	"github.com/procomfort/procomfort-quote/internal/log"
	"github.com/procomfort/procomfort-quote/internal/metrics"
	"github.com/procomfort/procomfort-quote/internal/opshttp"
	"github.com/procomfort/procomfort-quote/internal/otelx"
	"github.com/procomfort/procomfort-quote/internal/prof"
	"github.com/procomfort/procomfort-quote/internal/quotehttp"
	"github.com/procomfort/procomfort-quote/internal/ratelimit"
	"github.com/procomfort/procomfort-quote/internal/sitehandler"
	"github.com/procomfort/procomfort-quote/internal/webassets"

	v "github.com/procomfort/procomfort-quote/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Get build/version info
	vi := v.Get()

	var conf cfg.App
	var showVersion bool

	// Parse config from flags and env
	cfg.Register(flag.CommandLine, &conf)
	flag.BoolVar(&showVersion, "V", false, "Print version+build information and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf(
			"%s %s (commit=%s, build_date=%s, go=%s, dirty=%v)\n",
			vi.AppName, vi.Version, vi.Commit, vi.BuildDate, vi.GoVersion,
			vi.VCSDirty != nil && *vi.VCSDirty,
		)
		os.Exit(0)
	}

	// Fill in config from environment variables with prefix PCQ_ and validate
	cfg.FillFromEnv(flag.CommandLine, "PCQ_", func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	})

	// validate config
	if err := cfg.Validate(conf); err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	// Setup logging
	lvl, err := log.ParseLevel(conf.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %s: %v\n", conf.LogLevel, err)
		os.Exit(1)
	}
	stLvl, err := log.ParseLevel(conf.StacktraceLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid stacktrace level %s: %v\n", conf.StacktraceLevel, err)
		os.Exit(1)
	}
	lg, err := log.New(log.Options{
		App:             v.AppName,
		Level:           lvl,
		StacktraceLevel: stLvl,
		JsonFormat:      conf.LogJSON,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
		os.Exit(1)
	}
	// no-op for slog/stderr, but here if we swap backends in the future to ensure any buffered logs are flushed on shutdown
	defer lg.Sync()
	L := lg.With("component", "server")
	ctx = log.WithContext(ctx, L)

	L.Info(ctx, "initializing application",
		"version", vi.Version,
		"commit", vi.Commit,
		"build_date", vi.BuildDate,
		"go_version", vi.GoVersion,
		"vcs_dirty", vi.VCSDirty,
		"http_port", conf.HTTPPort,
		"admin_port", conf.AdminPort,
		"production", conf.Production,
		"enable_security_headers", conf.EnableSecurityHeaders,
		"custom_headers", len(conf.CustomHeaders.Headers),
		"enable_cors", conf.EnableCORS,
		"enable_rate_limit", conf.EnableRateLimit,
		"rate_limit_per_second", conf.RateLimitPerSecond,
		"rate_limit_burst", conf.RateLimitBurst,
		"enable_compression", conf.EnableCompression,
		"max_body_bytes", conf.MaxBodyBytes,
		"enable_pprof", conf.EnablePprof,
		"enable_pyroscope", conf.EnablePyroscope,
		"enable_tracing", conf.EnableTracing,
		"otlp_endpoint", conf.OTLPEndpoint,
		"pyro_server", conf.PyroServer,
		"pyro_tenant", conf.PyroTenantID,
		"trace_sample", conf.TraceSample,
	)

	// The catalogs are compiled in; a malformed entry is a build defect,
	// so refuse to start rather than serve bad quote data.
	if err := catalog.Validate(); err != nil {
		L.Error(ctx, err, "catalog validation failed")
		os.Exit(1)
	}

	// Setup pyroscope profiling
	stopProf, err := prof.Start(ctx, prof.Options{
		Enabled:       conf.EnablePyroscope,
		AppName:       v.AppName,
		ServerAddress: conf.PyroServer,
		TenantID:      conf.PyroTenantID,
		Tags: map[string]string{
			"app":       v.AppName,
			"component": "server",
			"version":   vi.Version,
			"commit":    vi.Commit,
			"source":    "go-agent",
		},
	})
	if err != nil {
		L.Error(ctx, err, "pyroscope start failed", "pyro_server", conf.PyroServer)
	}
	defer func() { stopProf() }()

	// Setup otel for tracing
	// Insecure is true because we are only writing to a collector on localhost
	shutdownOTEL, err := otelx.Init(ctx, otelx.Options{
		Enabled:  conf.EnableTracing,
		Endpoint: conf.OTLPEndpoint,
		Insecure: true,
		Sample:   conf.TraceSample,
		Service:  v.AppName,
		Version:  vi.Version,
	})
	if err != nil {
		L.Error(ctx, err, "otel init failed")
	}
	defer func() { _ = shutdownOTEL(context.Background()) }()

	// Setup metrics / admin listener
	m := metrics.New()
	m.SetBuildInfo(vi)

	// setup site handler that serves the embedded marketing pages
	siteHandler, err := sitehandler.New(sitehandler.Options{
		Logger: L,
		Site:   webassets.SiteFS(),
	})
	if err != nil {
		L.Error(ctx, err, "failed to create site handler")
		os.Exit(1)
	}

	// quote catalog API
	quoteAPI := quotehttp.NewAPI(L)

	// setup toggle for server shutdown
	var gate health.ShutdownGate
	readiness := health.All(gate.Probe())

	// Setup rate limiter middleware for the /api/ endpoints
	var limiter *ratelimit.IPLimiter
	if conf.EnableRateLimit {
		limiter = ratelimit.New(ctx,
			ratelimit.WithRate(conf.RateLimitPerSecond, conf.RateLimitBurst),
			// increment prometheus counter on each denied request
			ratelimit.WithOnDenied(func(ip string) {
				m.IncRateLimitDenied()
			}),
			// only log the first time an ip is denied each time it is cleaned from the bucket
			ratelimit.WithOnFirstDenied(func(ip string) {
				L.Warn(ctx, "rate limit triggered", "ip", ip)
			}),
			ratelimit.WithOnCapacity(func() {
				m.IncRateLimitCapacity()
				L.Warn(ctx, "rate limit capacity reached, rejecting new visitors until some are evicted")
			}),
		)
	}

	srvOpts := &httpserver.Options{
		Logger:            L,
		Port:              conf.HTTPPort,
		Production:        conf.Production,
		UseRecoverMW:      true,
		OnPanic:           m.IncHttpPanic,
		CustomHeaders:     conf.CustomHeaders.Headers,
		MaxBodyBytes:      conf.MaxBodyBytes,
		EnableCompression: conf.EnableCompression,
		MetricsMW:         m.Middleware,
		APIRoutes:         quoteAPI.RegisterRoutes,
		SiteHandler:       siteHandler,
	}
	if conf.EnableSecurityHeaders {
		policy := httpmw.DefaultSecurityPolicy()
		srvOpts.SecurityPolicy = &policy
	}
	if conf.EnableCORS {
		srvOpts.CORSOptions = &httpmw.CORSOptions{
			AllowedOrigins: conf.Origins(),
		}
	}
	if limiter != nil {
		srvOpts.RateLimitMW = limiter.Middleware
	}

	// start public http server
	siteHTTPStop, err := httpserver.Start(ctx, srvOpts)
	if err != nil {
		L.Error(ctx, err, "failed to start http listener")
		os.Exit(1)
	}
	defer func() { _ = siteHTTPStop(context.Background()) }()

	// start admin/ops listener to serve metrics, health checks and pprof
	opsHTTPStop, err := opshttp.Start(ctx, L, opshttp.Options{
		Port:        conf.AdminPort,
		Metrics:     m.Handler(),
		EnablePprof: conf.EnablePprof,
		Health:      health.Fixed(true, ""),
		Readiness:   readiness,
	})
	if err != nil {
		L.Error(ctx, err, "failed to start ops http listener")
		os.Exit(1)
	}
	defer func() { _ = opsHTTPStop(context.Background()) }()

	// notify systemd that we started successfully if started under systemd
	if err := notifySystemd(); err != nil {
		// log and dont exit, worst case systemd will kill the process after timeout
		L.Warn(ctx, "failed to notify systemd of readiness", "error", err)
	}

	// block until signal so we dont exit
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	L.Info(context.Background(), "shutdown signal received")

	// fail readiness to drain connections before closing listeners
	gate.Set("draining")
	L.Info(context.Background(), "shutdown gate closed")

	L.Info(context.Background(), "sleeping 10s for in-flight and load balancer health checks to drain")
	forceCh := make(chan os.Signal, 1)
	signal.Notify(forceCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-time.After(10 * time.Second):
		L.Info(context.Background(), "drain period complete")
	case <-forceCh:
		L.Warn(context.Background(), "second signal received, skipping drain")
	}
	signal.Stop(forceCh)

	if err := siteHTTPStop(shutdownCtx); err != nil {
		L.Error(context.Background(), err, "app http server shutdown")
	}

	if err := opsHTTPStop(shutdownCtx); err != nil {
		L.Error(context.Background(), err, "ops http server shutdown")
	}

	if err := shutdownOTEL(shutdownCtx); err != nil {
		L.Error(context.Background(), err, "otel shutdown")
	}

	stopProf()

	L.Info(context.Background(), "shutdown complete")
	os.Exit(0)
}

func notifySystemd() error {
	// systemd will set NOTIFY_SOCKET to a unix socket path if we were started under systemd with type=notify
	addr := os.Getenv("NOTIFY_SOCKET")
	if addr == "" {
		return fmt.Errorf("NOTIFY_SOCKET not set, skipping systemd notify")
	}
	conn, err := net.Dial("unixgram", addr)
	if err != nil {
		return fmt.Errorf("systemd notify failed: dial failed: %w", err)
	}
	conn.Write([]byte("READY=1"))
	if err := conn.Close(); err != nil {
		return fmt.Errorf("systemd notify failed: close failed: %w", err)
	}
	return nil
}
