// Package config assembles runtime settings from defaults, a TOML file, the
// environment and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	scaleup "RMGScale/internal/calc/scaleup"
	"RMGScale/internal/input"
)

// Flag names. Config sources skip any value whose flag was set explicitly.
const (
	FlagAddr            = "addr"
	FlagTLSCert         = "tls-cert"
	FlagTLSKey          = "tls-key"
	FlagShutdownTimeout = "shutdown-timeout"
	FlagRateLimit       = "rate-limit"
	FlagRateBurst       = "rate-burst"
	FlagAuthKey         = "auth-key"
	FlagCORSOrigins     = "cors-origins"
	FlagLogLevel        = "log-level"
	FlagLogFormat       = "log-format"
	FlagOutput          = "output"
	FlagInputMode       = "input-mode"
	FlagMethod          = "method"
	FlagAuthor          = "author"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Log formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

type Config struct {
	Addr            string
	TLSCert         string
	TLSKey          string
	ShutdownTimeout time.Duration
	// RateLimit is requests per second per client; RateBurst the bucket size.
	RateLimit float64
	RateBurst int
	// AuthKey enables bearer-token checks on /api when non-empty.
	AuthKey     string
	CORSOrigins []string

	LogLevel  string
	LogFormat string

	Output        string
	InputMode     string
	DefaultMethod string
	ReportAuthor  string
}

func Default() Config {
	return Config{
		Addr:            ":8080",
		ShutdownTimeout: 5 * time.Second,
		RateLimit:       1,
		RateBurst:       3,
		CORSOrigins:     []string{"*"},
		LogLevel:        "info",
		LogFormat:       LogFormatConsole,
		Output:          OutputText,
		InputMode:       string(input.ModeRange),
		DefaultMethod:   string(scaleup.TipSpeed),
	}
}

// TLS reports whether both a certificate and a key are configured.
func (c Config) TLS() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

// Method resolves DefaultMethod, accepting the command-line shorthands.
func (c Config) Method() (scaleup.Method, error) {
	return scaleup.LookupMethod(c.DefaultMethod)
}

// Mode resolves InputMode.
func (c Config) Mode() (input.Mode, error) {
	return input.ParseMode(c.InputMode)
}

func (c Config) Validate() error {
	var errs []error
	if _, port, err := net.SplitHostPort(c.Addr); err != nil {
		errs = append(errs, fmt.Errorf("addr %q: %w", c.Addr, err))
	} else if p, err := strconv.Atoi(port); err != nil || p < 0 || p > 65535 {
		errs = append(errs, fmt.Errorf("addr %q: invalid port", c.Addr))
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		errs = append(errs, errors.New("tls-cert and tls-key must be set together"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown-timeout must be positive"))
	}
	if c.RateLimit <= 0 {
		errs = append(errs, errors.New("rate-limit must be positive"))
	}
	if c.RateBurst < 1 {
		errs = append(errs, errors.New("rate-burst must be at least 1"))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log-level: %w", err))
	}
	switch c.LogFormat {
	case LogFormatConsole, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log-format %q: want console or json", c.LogFormat))
	}
	switch c.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		errs = append(errs, fmt.Errorf("output %q: want text, json or yaml", c.Output))
	}
	if _, err := c.Mode(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Method(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// configSetter applies values only when the matching flag was not changed.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setFloat(flag string, value float64, dst *float64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	s.setInt(flag, i, dst)
	return nil
}

func (s *configSetter) setFloatFromString(flag, value string, dst *float64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	s.setFloat(flag, f, dst)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
