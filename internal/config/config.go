package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	LogLevel string        `mapstructure:"log_level"`
	Scripts  ScriptsConfig `mapstructure:"scripts"`
	Convert  ConvertConfig `mapstructure:"convert"`
	Server   ServerConfig  `mapstructure:"server"`
}

type ScriptsConfig struct {
	Source string `mapstructure:"source"`
	Target string `mapstructure:"target"`
	// TableDir replaces the embedded script tables with <id>.toml files
	// from a directory when set.
	TableDir string `mapstructure:"table_dir"`
}

type ConvertConfig struct {
	Workers    int `mapstructure:"workers"`
	ChunkBytes int `mapstructure:"chunk_bytes"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	Workers         int    `mapstructure:"workers"`
	MaxTextBytes    int    `mapstructure:"max_text_bytes"`
	RequestTimeout  int    `mapstructure:"request_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"log-level":               "log_level",
	"from":                    "scripts.source",
	"to":                      "scripts.target",
	"table-dir":               "scripts.table_dir",
	"workers":                 "convert.workers",
	"chunk-bytes":             "convert.chunk_bytes",
	"server-listen-addr":      "server.listen_addr",
	"server-workers":          "server.workers",
	"server-max-text-bytes":   "server.max_text_bytes",
	"server-request-timeout":  "server.request_timeout",
	"server-shutdown-timeout": "server.shutdown_timeout",
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Scripts: ScriptsConfig{
			Source:   "devanagari",
			Target:   "iast_iso",
			TableDir: "",
		},
		Convert: ConvertConfig{
			Workers:    4,
			ChunkBytes: 64 << 10,
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			Workers:         4,
			MaxTextBytes:    64 << 10,
			RequestTimeout:  30,
			ShutdownTimeout: 30,
		},
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
	fs.String("from", defaults.Scripts.Source, "Source script")
	fs.String("to", defaults.Scripts.Target, "Target script")
	fs.String("table-dir", defaults.Scripts.TableDir, "Directory of <script>.toml tables overriding the built-in ones")
	fs.Int("workers", defaults.Convert.Workers, "Parallel conversions for files and large inputs")
	fs.Int("chunk-bytes", defaults.Convert.ChunkBytes, "Split inputs larger than this many bytes for parallel conversion (0 disables)")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("server-workers", defaults.Server.Workers, "Max concurrent conversions in the HTTP server")
	fs.Int("server-max-text-bytes", defaults.Server.MaxTextBytes, "Max request text size in bytes")
	fs.Int("server-request-timeout", defaults.Server.RequestTimeout, "Per-request timeout in seconds")
	fs.Int("server-shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown timeout in seconds")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	v.SetEnvPrefix("LIPI")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("lipi")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("scripts.source", c.Scripts.Source)
	v.SetDefault("scripts.target", c.Scripts.Target)
	v.SetDefault("scripts.table_dir", c.Scripts.TableDir)
	v.SetDefault("convert.workers", c.Convert.Workers)
	v.SetDefault("convert.chunk_bytes", c.Convert.ChunkBytes)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.workers", c.Server.Workers)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("server.request_timeout", c.Server.RequestTimeout)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
}

// bindFlags binds each known flag present in fs to its config key. A flag
// only takes precedence over env and file values when it was set.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
