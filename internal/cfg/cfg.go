// Package cfg builds the immutable application configuration. Values
// come from flags with an environment overlay (cli flag > env > default)
// and are validated once at startup; every pipeline stage receives the
// parts it needs explicitly rather than reading ambient state.
package cfg

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/procomfort/procomfort-quote/internal/httpmw"
	"github.com/procomfort/procomfort-quote/internal/log"
)

type App struct {
	LogJSON         bool
	LogLevel        string
	StacktraceLevel string

	HTTPPort  int
	AdminPort int

	// Production controls error verbosity only: generic 500 bodies in
	// production, message+stack elsewhere.
	Production bool

	EnableSecurityHeaders bool
	CustomHeaders         HeaderList

	EnableCORS         bool
	CORSAllowedOrigins string

	EnableRateLimit    bool
	RateLimitPerSecond float64
	RateLimitBurst     int

	EnableCompression bool
	MaxBodyBytes      int64

	EnablePprof bool

	EnableTracing bool
	OTLPEndpoint  string
	TraceSample   float64

	EnablePyroscope bool
	PyroServer      string
	PyroTenantID    string
}

// HeaderList is a repeatable "-custom-header 'Name: Value'" flag that
// builds the static response-header mapping, preserving order.
type HeaderList struct {
	Headers []httpmw.CustomHeader
}

func (h *HeaderList) String() string {
	parts := make([]string, len(h.Headers))
	for i, hd := range h.Headers {
		parts[i] = hd.Name + ": " + hd.Value
	}
	return strings.Join(parts, ", ")
}

func (h *HeaderList) Set(v string) error {
	name, value, ok := strings.Cut(v, ":")
	if !ok {
		return fmt.Errorf("custom header must be %q, got %q", "Name: Value", v)
	}
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if name == "" {
		return fmt.Errorf("custom header has empty name: %q", v)
	}
	h.Headers = append(h.Headers, httpmw.CustomHeader{Name: name, Value: value})
	return nil
}

// Register binds all config fields to the given FlagSet with defaults inline.
func Register(fs *flag.FlagSet, c *App) {
	fs.BoolVar(&c.LogJSON, "log-json", true, "JSON logs (true) or logfmt (false)")
	fs.StringVar(&c.LogLevel, "log-level", "info", "debug|info|warn|error")
	fs.StringVar(&c.StacktraceLevel, "stacktrace-level", "error", "debug|info|warn|error")
	fs.IntVar(&c.HTTPPort, "http-port", 8080, "listen TCP port (1..65535)")
	fs.IntVar(&c.AdminPort, "admin-port", 9000, "admin listen TCP port (1..65535)")
	fs.BoolVar(&c.Production, "production", false, "Production mode (generic error bodies, no stack traces in responses)")
	fs.BoolVar(&c.EnableSecurityHeaders, "enable-security-headers", true, "Apply CSP/HSTS protective headers to every response")
	fs.Var(&c.CustomHeaders, "custom-header", "Static response header as 'Name: Value' (repeatable)")
	fs.BoolVar(&c.EnableCORS, "enable-cors", false, "Enable the cross-origin policy stage")
	fs.StringVar(&c.CORSAllowedOrigins, "cors-allowed-origins", "", "Comma-separated allowed origins; '*' allows any")
	fs.BoolVar(&c.EnableRateLimit, "enable-rate-limit", true, "Rate limit /api/ requests per client IP")
	fs.Float64Var(&c.RateLimitPerSecond, "rate-limit-per-second", 10, "Token refill rate per second per IP")
	fs.IntVar(&c.RateLimitBurst, "rate-limit-burst", 30, "Token bucket capacity per IP")
	fs.BoolVar(&c.EnableCompression, "enable-compression", true, "Compress text responses")
	fs.Int64Var(&c.MaxBodyBytes, "max-body-bytes", httpmw.DefaultMaxBodyBytes, "Maximum request body size in bytes")
	fs.BoolVar(&c.EnablePprof, "enable-pprof", true, "Enable pprof profiling (admin port only)")
	fs.BoolVar(&c.EnableTracing, "enable-tracing", false, "Enable OTLP tracing, pushed to -otlp-endpoint")
	fs.StringVar(&c.OTLPEndpoint, "otlp-endpoint", "", "OTLP gRPC endpoint (host:port)")
	fs.Float64Var(&c.TraceSample, "trace-sample", 0.0, "Trace sampling ratio (0..1)")
	fs.BoolVar(&c.EnablePyroscope, "enable-pyroscope", false, "Push profiles to the server set in -pyro-server")
	fs.StringVar(&c.PyroServer, "pyro-server", "", "Pyroscope server URL")
	fs.StringVar(&c.PyroTenantID, "pyro-tenant", "", "Tenant (X-Scope-OrgID) for -pyro-server")
}

// FillFromEnv sets any flag not explicitly passed on the CLI from
// environment variables. Flag "foo-bar" maps to PREFIX_FOO_BAR.
// Precedence: cli flag > env var > default.
func FillFromEnv(fs *flag.FlagSet, prefix string, logf func(string, ...any)) {
	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	fs.VisitAll(func(f *flag.Flag) {
		key := prefix + strings.ReplaceAll(strings.ToUpper(f.Name), "-", "_")
		envVal, envSet := os.LookupEnv(key)
		if !envSet {
			return
		}
		if explicit[f.Name] {
			if logf != nil {
				logf("flag -%s: cli value %q overrides env %s=%q", f.Name, f.Value.String(), key, envVal)
			}
			return
		}
		prev := f.Value.String()
		if err := fs.Set(f.Name, envVal); err != nil {
			fs.Set(f.Name, prev)
			if logf != nil {
				logf("flag -%s: ignoring invalid env %s=%q: %v", f.Name, key, envVal, err)
			}
		}
	})
}

// Origins splits the configured CORS origin list.
func (c App) Origins() []string {
	if strings.TrimSpace(c.CORSAllowedOrigins) == "" {
		return nil
	}
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that config values are within expected ranges and
// formats. Returns an error describing all invalid fields, or nil.
func Validate(c App) error {
	var errs []error

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %d (must be 1..65535)", c.HTTPPort))
	}
	if c.AdminPort < 1 || c.AdminPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid ADMIN_PORT %d (must be 1..65535)", c.AdminPort))
	}
	if c.AdminPort == c.HTTPPort {
		errs = append(errs, fmt.Errorf("ADMIN_PORT and HTTP_PORT must differ (both %d)", c.HTTPPort))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err))
	}
	if c.StacktraceLevel != "" {
		if _, err := log.ParseLevel(c.StacktraceLevel); err != nil {
			errs = append(errs, fmt.Errorf("invalid STACKTRACE_LEVEL %q: %w", c.StacktraceLevel, err))
		}
	}

	for _, h := range c.CustomHeaders.Headers {
		if strings.ContainsAny(h.Name, " \t\r\n:") {
			errs = append(errs, fmt.Errorf("invalid custom header name %q", h.Name))
		}
	}

	if c.EnableCORS && len(c.Origins()) == 0 {
		errs = append(errs, fmt.Errorf("CORS_ALLOWED_ORIGINS required when ENABLE_CORS=true"))
	}

	if c.EnableRateLimit {
		if c.RateLimitPerSecond <= 0 {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_PER_SECOND must be > 0 (got %g)", c.RateLimitPerSecond))
		}
		if c.RateLimitBurst < 1 {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be >= 1 (got %d)", c.RateLimitBurst))
		}
	}

	if c.MaxBodyBytes < 1 {
		errs = append(errs, fmt.Errorf("MAX_BODY_BYTES must be >= 1 (got %d)", c.MaxBodyBytes))
	}

	if c.TraceSample < 0 || c.TraceSample > 1 {
		errs = append(errs, fmt.Errorf("invalid TRACE_SAMPLE %.3f (must be 0..1)", c.TraceSample))
	}

	if c.EnableTracing {
		if c.OTLPEndpoint == "" {
			errs = append(errs, fmt.Errorf("OTLP_ENDPOINT required when ENABLE_TRACING=true"))
		} else if _, _, err := net.SplitHostPort(c.OTLPEndpoint); err != nil {
			errs = append(errs, fmt.Errorf("OTLP_ENDPOINT must be host:port (got %q): %v", c.OTLPEndpoint, err))
		}
	}

	if c.EnablePyroscope {
		if c.PyroServer == "" {
			errs = append(errs, fmt.Errorf("PYRO_SERVER required when ENABLE_PYROSCOPE=true"))
		} else if u, err := url.Parse(c.PyroServer); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("PYRO_SERVER must be a URL (got %q)", c.PyroServer))
		}
		if c.PyroTenantID == "" {
			errs = append(errs, fmt.Errorf("PYRO_TENANT required when ENABLE_PYROSCOPE=true"))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
