package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by ApplyEnvConfig.
const EnvPrefix = "RMGSCALE_"

// LoadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// ApplyEnvConfig applies RMGSCALE_* variables. TOKEN_KEY is accepted as a
// fallback for RMGSCALE_AUTH_KEY.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString(FlagAddr, getenv("ADDR"), &cfg.Addr)
	s.setString(FlagTLSCert, getenv("TLS_CERT"), &cfg.TLSCert)
	s.setString(FlagTLSKey, getenv("TLS_KEY"), &cfg.TLSKey)
	if err := s.setDuration(FlagShutdownTimeout, getenv("SHUTDOWN_TIMEOUT"), &cfg.ShutdownTimeout); err != nil {
		return err
	}
	if err := s.setFloatFromString(FlagRateLimit, getenv("RATE_LIMIT"), &cfg.RateLimit); err != nil {
		return err
	}
	if err := s.setIntFromString(FlagRateBurst, getenv("RATE_BURST"), &cfg.RateBurst); err != nil {
		return err
	}
	s.setString(FlagAuthKey, os.Getenv("TOKEN_KEY"), &cfg.AuthKey)
	s.setString(FlagAuthKey, getenv("AUTH_KEY"), &cfg.AuthKey)
	s.setStrings(FlagCORSOrigins, splitList(getenv("CORS_ORIGINS")), &cfg.CORSOrigins)
	s.setString(FlagLogLevel, getenv("LOG_LEVEL"), &cfg.LogLevel)
	s.setString(FlagLogFormat, getenv("LOG_FORMAT"), &cfg.LogFormat)
	s.setString(FlagOutput, getenv("OUTPUT"), &cfg.Output)
	s.setString(FlagInputMode, getenv("INPUT_MODE"), &cfg.InputMode)
	s.setString(FlagMethod, getenv("METHOD"), &cfg.DefaultMethod)
	s.setString(FlagAuthor, getenv("REPORT_AUTHOR"), &cfg.ReportAuthor)
	return nil
}

func getenv(name string) string {
	return os.Getenv(EnvPrefix + name)
}
