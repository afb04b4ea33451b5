package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	LogLevel string         `mapstructure:"log_level"`
	Analyzer AnalyzerConfig `mapstructure:"analyzer"`
	TTS      TTSConfig      `mapstructure:"tts"`
	Audio    AudioConfig    `mapstructure:"audio"`
	Store    StoreConfig    `mapstructure:"store"`
	Server   ServerConfig   `mapstructure:"server"`
}

type AnalyzerConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type TTSConfig struct {
	Backend        string `mapstructure:"backend"`
	CLIPath        string `mapstructure:"cli_path"`
	CLIConfigPath  string `mapstructure:"cli_config_path"`
	Quiet          bool   `mapstructure:"quiet"`
	ServerURL      string `mapstructure:"server_url"`
	MaxChunkChars  int    `mapstructure:"max_chunk_chars"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type AudioConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	MediaDir  string `mapstructure:"media_dir"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	MaxTextBytes    int    `mapstructure:"max_text_bytes"`
	MaxUploadBytes  int    `mapstructure:"max_upload_bytes"`
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

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Analyzer: AnalyzerConfig{
			BaseURL:        "https://api.openai.com",
			APIKey:         "",
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 120,
		},
		TTS: TTSConfig{
			Backend:        "",
			CLIPath:        "",
			CLIConfigPath:  "",
			Quiet:          true,
			ServerURL:      "http://127.0.0.1:8080",
			MaxChunkChars:  400,
			TimeoutSeconds: 120,
		},
		Audio: AudioConfig{
			OutputDir: "out",
			MediaDir:  "media",
		},
		Store: StoreConfig{
			Path: "production.db",
		},
		Server: ServerConfig{
			ListenAddr:      ":8870",
			MaxTextBytes:    65536,
			MaxUploadBytes:  16 << 20,
			ShutdownTimeout: 30,
		},
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
	fs.String("analyzer-base-url", defaults.Analyzer.BaseURL, "Script analyzer service base URL")
	fs.String("analyzer-api-key", defaults.Analyzer.APIKey, "Script analyzer API key")
	fs.String("analyzer-model", defaults.Analyzer.Model, "Script analyzer model name")
	fs.Int("analyzer-timeout-seconds", defaults.Analyzer.TimeoutSeconds, "Script analyzer request timeout in seconds")
	fs.String("tts-backend", defaults.TTS.Backend, "Synthesis backend (cli|http)")
	fs.String("tts-cli-path", defaults.TTS.CLIPath, "Path to pocket-tts executable")
	fs.String("tts-cli-config-path", defaults.TTS.CLIConfigPath, "Path to pocket-tts config file")
	fs.Bool("tts-quiet", defaults.TTS.Quiet, "Pass --quiet to pocket-tts generate")
	fs.String("tts-server-url", defaults.TTS.ServerURL, "TTS server base URL for the http backend")
	fs.Int("tts-max-chunk-chars", defaults.TTS.MaxChunkChars, "Maximum characters per synthesis chunk")
	fs.Int("tts-timeout-seconds", defaults.TTS.TimeoutSeconds, "Per-chunk synthesis timeout in seconds")
	fs.String("audio-output-dir", defaults.Audio.OutputDir, "Directory for produced audio artifacts")
	fs.String("audio-media-dir", defaults.Audio.MediaDir, "Directory holding music bed files")
	fs.String("store-path", defaults.Store.Path, "Path to the production snapshot database")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("server-max-text-bytes", defaults.Server.MaxTextBytes, "Maximum accepted story text size in bytes")
	fs.Int("server-max-upload-bytes", defaults.Server.MaxUploadBytes, "Maximum accepted document upload size in bytes")
	fs.Int("server-shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown drain period in seconds")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}
	registerAliases(v)

	v.SetEnvPrefix("AUDIODRAMA")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	if err := v.BindEnv("analyzer.api_key", "AUDIODRAMA_ANALYZER_API_KEY", "OPENAI_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind api key env vars: %w", err)
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("audiodrama")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
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
	v.SetDefault("analyzer.base_url", c.Analyzer.BaseURL)
	v.SetDefault("analyzer.api_key", c.Analyzer.APIKey)
	v.SetDefault("analyzer.model", c.Analyzer.Model)
	v.SetDefault("analyzer.timeout_seconds", c.Analyzer.TimeoutSeconds)
	v.SetDefault("tts.backend", c.TTS.Backend)
	v.SetDefault("tts.cli_path", c.TTS.CLIPath)
	v.SetDefault("tts.cli_config_path", c.TTS.CLIConfigPath)
	v.SetDefault("tts.quiet", c.TTS.Quiet)
	v.SetDefault("tts.server_url", c.TTS.ServerURL)
	v.SetDefault("tts.max_chunk_chars", c.TTS.MaxChunkChars)
	v.SetDefault("tts.timeout_seconds", c.TTS.TimeoutSeconds)
	v.SetDefault("audio.output_dir", c.Audio.OutputDir)
	v.SetDefault("audio.media_dir", c.Audio.MediaDir)
	v.SetDefault("store.path", c.Store.Path)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("server.max_upload_bytes", c.Server.MaxUploadBytes)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("log_level", "log-level")
	v.RegisterAlias("analyzer.base_url", "analyzer-base-url")
	v.RegisterAlias("analyzer.api_key", "analyzer-api-key")
	v.RegisterAlias("analyzer.model", "analyzer-model")
	v.RegisterAlias("analyzer.timeout_seconds", "analyzer-timeout-seconds")
	v.RegisterAlias("tts.backend", "tts-backend")
	v.RegisterAlias("tts.cli_path", "tts-cli-path")
	v.RegisterAlias("tts.cli_config_path", "tts-cli-config-path")
	v.RegisterAlias("tts.quiet", "tts-quiet")
	v.RegisterAlias("tts.server_url", "tts-server-url")
	v.RegisterAlias("tts.max_chunk_chars", "tts-max-chunk-chars")
	v.RegisterAlias("tts.timeout_seconds", "tts-timeout-seconds")
	v.RegisterAlias("audio.output_dir", "audio-output-dir")
	v.RegisterAlias("audio.media_dir", "audio-media-dir")
	v.RegisterAlias("store.path", "store-path")
	v.RegisterAlias("server.listen_addr", "server-listen-addr")
	v.RegisterAlias("server.max_text_bytes", "server-max-text-bytes")
	v.RegisterAlias("server.max_upload_bytes", "server-max-upload-bytes")
	v.RegisterAlias("server.shutdown_timeout", "server-shutdown-timeout")
}
