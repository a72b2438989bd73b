// Package config loads the operator profile: tool paths, carrier formats,
// embedding parameters and logging.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/opd-ai/vidstego"
	"github.com/opd-ai/vidstego/av/mux"
	"github.com/opd-ai/vidstego/av/video"
	"github.com/opd-ai/vidstego/crypto"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ToolsConfig locates the external media tools.
type ToolsConfig struct {
	FFmpeg  string `yaml:"ffmpeg"`
	FFprobe string `yaml:"ffprobe"`
}

// VideoConfig selects the intermediate and output formats.
type VideoConfig struct {
	Codec       string `yaml:"codec"`        // lossless encoder for the rebuilt video
	FrameFormat string `yaml:"frame_format"` // png or bmp
	WorkDir     string `yaml:"work_dir"`     // parent of temporary workspaces
}

// EmbeddingConfig must match between the encoding and decoding side.
type EmbeddingConfig struct {
	Cipher          string `yaml:"cipher"`             // aes-256-gcm or xchacha20-poly1305
	Channels        string `yaml:"channels"`           // any of r, g, b
	MaxBitsPerFrame int    `yaml:"max_bits_per_frame"` // 0 uses every slot
}

// LoggingConfig configures logrus.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Config is the full operator profile.
type Config struct {
	Tools     ToolsConfig     `yaml:"tools"`
	Video     VideoConfig     `yaml:"video"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// Default returns the built-in profile.
func Default() *Config {
	mc := mux.DefaultConfig()
	return &Config{
		Tools: ToolsConfig{
			FFmpeg:  mc.FFmpeg,
			FFprobe: mc.FFprobe,
		},
		Video: VideoConfig{
			Codec:       mc.VideoCodec,
			FrameFormat: string(mc.FrameFormat),
		},
		Embedding: EmbeddingConfig{
			Cipher:   crypto.SuiteAES256GCM.String(),
			Channels: video.RGBMode.String(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML profile. Keys missing from the file keep their default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the profile as YAML.
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Marshal renders the profile as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks every field that has a fixed vocabulary.
func (c *Config) Validate() error {
	if _, err := c.PipelineOptions(); err != nil {
		return err
	}
	if err := c.MuxConfig().Validate(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if _, err := c.formatter(); err != nil {
		return err
	}
	return nil
}

// PipelineOptions converts the embedding section.
func (c *Config) PipelineOptions() (*vidstego.Options, error) {
	suite, err := crypto.ParseSuite(c.Embedding.Cipher)
	if err != nil {
		return nil, err
	}
	channels, err := video.ParseChannels(c.Embedding.Channels)
	if err != nil {
		return nil, err
	}

	options := vidstego.NewOptions()
	options.Suite = suite
	options.Plan = video.Plan{
		Channels:        channels,
		MaxBitsPerFrame: c.Embedding.MaxBitsPerFrame,
	}
	if err := options.Plan.Validate(); err != nil {
		return nil, err
	}
	return options, nil
}

// MuxConfig converts the tools and video sections.
func (c *Config) MuxConfig() mux.Config {
	return mux.Config{
		FFmpeg:      c.Tools.FFmpeg,
		FFprobe:     c.Tools.FFprobe,
		VideoCodec:  c.Video.Codec,
		FrameFormat: video.Format(strings.ToLower(c.Video.FrameFormat)),
		WorkDir:     c.Video.WorkDir,
	}
}

// ApplyLogging configures logger from the logging section.
func (c *Config) ApplyLogging(logger *logrus.Logger) error {
	level, err := logrus.ParseLevel(c.Logging.Level)
	if err != nil {
		return err
	}
	formatter, err := c.formatter()
	if err != nil {
		return err
	}
	logger.SetLevel(level)
	logger.SetFormatter(formatter)
	return nil
}

func (c *Config) formatter() (logrus.Formatter, error) {
	switch strings.ToLower(c.Logging.Format) {
	case "", "text":
		return &logrus.TextFormatter{FullTimestamp: true}, nil
	case "json":
		return &logrus.JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
}
