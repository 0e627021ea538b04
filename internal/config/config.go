package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultConfigDir is the default configuration directory
	DefaultConfigDir = ".config/kartoza-mini-recorder"
	// DefaultVideosDir is the default output directory for recordings
	DefaultVideosDir = "Videos/Screencasts"
	// ConfigFileName is the name of the configuration file
	ConfigFileName = "config.json"
	// SocketFileName is the name of the shortcut relay socket
	SocketFileName = "kartoza-mini-recorder.sock"
)

// Recording defaults. The bitrate ceiling and frame size cap match what the
// recorder has always produced: VP8 WebM at 2.5 Mbit/s, at most 1920x1080.
const (
	DefaultChunkInterval = time.Second
	DefaultVideoBitrate  = 2500000
	DefaultFrameRate     = 30
	DefaultMaxWidth      = 1920
	DefaultMaxHeight     = 1080
)

// Environment overrides
const (
	EnvOutputDir = "KARTOZA_MINI_RECORDER_OUTPUT_DIR"
	EnvSource    = "KARTOZA_MINI_RECORDER_SOURCE"
	EnvFFmpeg    = "KARTOZA_MINI_RECORDER_FFMPEG"
)

// Duration is a time.Duration that reads and writes as "1s" style strings
type Duration time.Duration

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts either a duration string or a number of milliseconds
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var ms int64
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("invalid duration: %s", data)
	}
	*d = Duration(time.Duration(ms) * time.Millisecond)
	return nil
}

// Config holds the application configuration
type Config struct {
	OutputDir     string   `json:"output_dir"`
	Source        string   `json:"source,omitempty"`
	ChunkInterval Duration `json:"chunk_interval"`
	VideoBitrate  int      `json:"video_bitrate"`
	FrameRate     int      `json:"frame_rate"`
	MaxWidth      int      `json:"max_width"`
	MaxHeight     int      `json:"max_height"`
	FFmpegPath    string   `json:"ffmpeg_path,omitempty"`
	SocketPath    string   `json:"socket_path,omitempty"`
	SaveDialog    bool     `json:"save_dialog"`
	Sounds        bool     `json:"sounds"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		OutputDir:     GetDefaultVideosDir(),
		ChunkInterval: Duration(DefaultChunkInterval),
		VideoBitrate:  DefaultVideoBitrate,
		FrameRate:     DefaultFrameRate,
		MaxWidth:      DefaultMaxWidth,
		MaxHeight:     DefaultMaxHeight,
		FFmpegPath:    "ffmpeg",
		SocketPath:    GetDefaultSocketPath(),
		SaveDialog:    true,
	}
}

// Interval returns the chunk interval as a time.Duration
func (c *Config) Interval() time.Duration {
	return time.Duration(c.ChunkInterval)
}

// Validate checks that the recording parameters are usable
func (c *Config) Validate() error {
	var errs []error
	if c.ChunkInterval <= 0 {
		errs = append(errs, fmt.Errorf("chunk_interval must be positive"))
	}
	if c.VideoBitrate <= 0 {
		errs = append(errs, fmt.Errorf("video_bitrate must be positive"))
	}
	if c.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("frame_rate must be positive"))
	}
	if c.MaxWidth < 0 || c.MaxHeight < 0 {
		errs = append(errs, fmt.Errorf("max_width and max_height must not be negative"))
	}
	if c.OutputDir == "" {
		errs = append(errs, fmt.Errorf("output_dir must be set"))
	}
	return errors.Join(errs...)
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigDir
	}
	return filepath.Join(home, DefaultConfigDir)
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), ConfigFileName)
}

// GetDefaultVideosDir returns the default videos directory path
func GetDefaultVideosDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultVideosDir
	}
	return filepath.Join(home, DefaultVideosDir)
}

// GetDefaultSocketPath returns the shortcut relay socket path. The runtime
// directory is preferred so the socket is private to the user session.
func GetDefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, SocketFileName)
	}
	return filepath.Join(os.TempDir(), SocketFileName)
}

// EnsureDirectories creates the necessary directories
func EnsureDirectories(cfg *Config) error {
	dirs := []string{
		GetConfigDir(),
		cfg.OutputDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return nil
}

// Load loads the configuration from the default location
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads the configuration from path. A missing file yields the
// defaults. Environment overrides are applied last.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	cfg.OutputDir = expandTilde(cfg.OutputDir)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv(EnvSource); v != "" {
		cfg.Source = v
	}
	if v := os.Getenv(EnvFFmpeg); v != "" {
		cfg.FFmpegPath = v
	}
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
