package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config with TOML-friendly types.
type FileConfig struct {
	Addr            string   `toml:"addr"`
	TLSCert         string   `toml:"tls_cert"`
	TLSKey          string   `toml:"tls_key"`
	ShutdownTimeout string   `toml:"shutdown_timeout"`
	RateLimit       float64  `toml:"rate_limit"`
	RateBurst       int      `toml:"rate_burst"`
	AuthKey         string   `toml:"auth_key"`
	CORSOrigins     []string `toml:"cors_origins"`
	LogLevel        string   `toml:"log_level"`
	LogFormat       string   `toml:"log_format"`
	Output          string   `toml:"output"`
	InputMode       string   `toml:"input_mode"`
	DefaultMethod   string   `toml:"method"`
	ReportAuthor    string   `toml:"report_author"`
}

func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.rmgscale/config.toml, or "" without a home directory.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".rmgscale", "config.toml")
	}
	return ""
}

func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString(FlagAddr, fc.Addr, &cfg.Addr)
	s.setString(FlagTLSCert, fc.TLSCert, &cfg.TLSCert)
	s.setString(FlagTLSKey, fc.TLSKey, &cfg.TLSKey)
	if err := s.setDuration(FlagShutdownTimeout, fc.ShutdownTimeout, &cfg.ShutdownTimeout); err != nil {
		return err
	}
	s.setFloat(FlagRateLimit, fc.RateLimit, &cfg.RateLimit)
	s.setInt(FlagRateBurst, fc.RateBurst, &cfg.RateBurst)
	s.setString(FlagAuthKey, fc.AuthKey, &cfg.AuthKey)
	s.setStrings(FlagCORSOrigins, fc.CORSOrigins, &cfg.CORSOrigins)
	s.setString(FlagLogLevel, fc.LogLevel, &cfg.LogLevel)
	s.setString(FlagLogFormat, fc.LogFormat, &cfg.LogFormat)
	s.setString(FlagOutput, fc.Output, &cfg.Output)
	s.setString(FlagInputMode, fc.InputMode, &cfg.InputMode)
	s.setString(FlagMethod, fc.DefaultMethod, &cfg.DefaultMethod)
	s.setString(FlagAuthor, fc.ReportAuthor, &cfg.ReportAuthor)
	return nil
}

// Load applies the config file, the .env file and the environment to cfg.
// An explicit path must exist; the default path is skipped when missing.
func Load(cfg *Config, path string, changed map[string]bool) error {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	if path != "" {
		fc, err := LoadFileConfig(path)
		switch {
		case err == nil:
			if err := ApplyFileConfig(cfg, fc, changed); err != nil {
				return err
			}
		case explicit || !errors.Is(err, fs.ErrNotExist):
			return err
		}
	}
	if err := LoadDotEnv(".env"); err != nil {
		return err
	}
	return ApplyEnvConfig(cfg, changed)
}
