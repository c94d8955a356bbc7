// Package config loads application settings. Values are layered: built-in
// defaults, then an optional YAML file, then RECALL_ environment variables,
// then command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // api.timezone must resolve on hosts without zoneinfo

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "RECALL_"

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	API     APIConfig     `koanf:"api"`
	Locale  string        `koanf:"locale" validate:"required"`
	Log     LogConfig     `koanf:"log"`
	Journal JournalConfig `koanf:"journal"`
	Import  ImportConfig  `koanf:"import"`
}

type ServerConfig struct {
	Listen string `koanf:"listen" validate:"required,hostname_port"`
	// SessionTTL is how long an untouched study session is kept.
	SessionTTL time.Duration `koanf:"session_ttl" validate:"gt=0"`
}

// APIConfig points at the flashcard REST API.
type APIConfig struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	Token   string        `koanf:"token"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
	// Timezone applies to timestamps the API sends without an offset.
	Timezone string `koanf:"timezone" validate:"required,timezone"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// JournalConfig locates the local SQLite review journal.
type JournalConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// ImportConfig controls markdown imports.
type ImportConfig struct {
	ReposDir    string `koanf:"repos_dir" validate:"required"`
	Concurrency int    `koanf:"concurrency" validate:"min=1,max=32"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:  ServerConfig{Listen: ":8080", SessionTTL: 2 * time.Hour},
		API:     APIConfig{BaseURL: "http://localhost:8081/api", Timeout: 10 * time.Second, Timezone: "UTC"},
		Locale:  "en",
		Log:     LogConfig{Level: "info", Format: "text"},
		Journal: JournalConfig{Path: "recall.db"},
		Import:  ImportConfig{ReposDir: "repos", Concurrency: 4},
	}
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"listen":             "server.listen",
	"session-ttl":        "server.session_ttl",
	"api-url":            "api.base_url",
	"api-timeout":        "api.timeout",
	"api-timezone":       "api.timezone",
	"locale":             "locale",
	"log-level":          "log.level",
	"log-format":         "log.format",
	"journal":            "journal.path",
	"repos-dir":          "import.repos_dir",
	"import-concurrency": "import.concurrency",
}

// RegisterFlags defines the configuration flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("listen", d.Server.Listen, "Address for the web UI to listen on")
	fs.String("api-url", d.API.BaseURL, "Base URL of the flashcard API")
	fs.Duration("session-ttl", d.Server.SessionTTL, "Discard study sessions idle for longer than this")
	fs.Duration("api-timeout", d.API.Timeout, "Timeout for a single API request")
	fs.String("api-timezone", d.API.Timezone, "Time zone for API timestamps without an offset (IANA name)")
	fs.String("locale", d.Locale, "Display language (BCP 47 tag, e.g. en or ru-RU)")
	fs.String("log-level", d.Log.Level, "Log level: debug, info, warn or error")
	fs.String("log-format", d.Log.Format, "Log format: text or json")
	fs.String("journal", d.Journal.Path, "Path to the SQLite review journal")
	fs.String("repos-dir", d.Import.ReposDir, "Directory for cloned git import sources")
	fs.Int("import-concurrency", d.Import.Concurrency, "Concurrent card uploads during import")
}

// Load builds the configuration. path may be empty to skip the file layer.
// fs may be nil to skip the flag layer.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if fs != nil {
		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, f.Value.String()
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("failed to read flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// envKey turns RECALL_API__BASE_URL into api.base_url.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
