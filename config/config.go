package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/dotfield/highlight"
	"github.com/lixenwraith/dotfield/render"
	"github.com/lixenwraith/dotfield/tween"
)

// maxStepHz keeps the fixed step at a whole millisecond or longer
const maxStepHz = 1000

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// Config holds dotfield configuration.
type Config struct {
	Scene     SceneConfig     `toml:"scene" yaml:"scene"`
	Motion    MotionConfig    `toml:"motion" yaml:"motion"`
	Camera    CameraConfig    `toml:"camera" yaml:"camera"`
	Highlight HighlightConfig `toml:"highlight" yaml:"highlight"`
	Popup     PopupConfig     `toml:"popup" yaml:"popup"`
	Render    RenderConfig    `toml:"render" yaml:"render"`
	Audio     AudioConfig     `toml:"audio" yaml:"audio"`
}

// SceneConfig controls population and the connector graph.
type SceneConfig struct {
	Interactive          int     `toml:"interactive" yaml:"interactive"`
	NonInteractive       []int   `toml:"non_interactive" yaml:"non_interactive"` // main cloud, low edge, high edge
	ConnectorProbability float64 `toml:"connector_probability" yaml:"connector_probability"`
	Bound                float64 `toml:"bound" yaml:"bound"`
	Seed                 uint64  `toml:"seed" yaml:"seed"` // 0 picks a time-based seed
}

// MotionConfig controls drift speed and the fixed simulation step.
type MotionConfig struct {
	NormalSpeed   float64 `toml:"normal_speed" yaml:"normal_speed"` // Units per step
	HoverSpeed    float64 `toml:"hover_speed" yaml:"hover_speed"`
	StepHz        int     `toml:"step_hz" yaml:"step_hz"`
	MaxFrameSteps int     `toml:"max_frame_steps" yaml:"max_frame_steps"`
}

// CameraConfig controls the perspective camera and wheel zoom.
type CameraConfig struct {
	FOV         float64 `toml:"fov" yaml:"fov"`
	Near        float64 `toml:"near" yaml:"near"`
	Far         float64 `toml:"far" yaml:"far"`
	Distance    float64 `toml:"distance" yaml:"distance"`
	MinDistance float64 `toml:"min_distance" yaml:"min_distance"`
	MaxDistance float64 `toml:"max_distance" yaml:"max_distance"`
	WheelFactor float64 `toml:"wheel_factor" yaml:"wheel_factor"` // Units per wheel delta
	WheelNotch  float64 `toml:"wheel_notch" yaml:"wheel_notch"`   // Wheel delta per notch
}

// HighlightConfig selects and tunes the hover effect.
type HighlightConfig struct {
	Mode          string        `toml:"mode" yaml:"mode"` // "animated", "instant"
	HoverScale    float64       `toml:"hover_scale" yaml:"hover_scale"`
	Easing        string        `toml:"easing" yaml:"easing"`
	EntityEase    time.Duration `toml:"entity_ease" yaml:"entity_ease"`
	ConnectorEase time.Duration `toml:"connector_ease" yaml:"connector_ease"`
	ConnectorHold time.Duration `toml:"connector_hold" yaml:"connector_hold"`
}

// PopupConfig controls popup fades.
type PopupConfig struct {
	FadeIn  time.Duration `toml:"fade_in" yaml:"fade_in"`
	FadeOut time.Duration `toml:"fade_out" yaml:"fade_out"`
}

// RenderConfig controls frame rate and colours.
type RenderConfig struct {
	FPS            int    `toml:"fps" yaml:"fps"`
	HUD            bool   `toml:"hud" yaml:"hud"`
	Background     string `toml:"background" yaml:"background"`
	Interactive    string `toml:"interactive" yaml:"interactive"`
	NonInteractive string `toml:"non_interactive" yaml:"non_interactive"`
	Line           string `toml:"line" yaml:"line"`
	Accent         string `toml:"accent" yaml:"accent"`
}

// AudioConfig controls interaction cues.
type AudioConfig struct {
	Enabled bool    `toml:"enabled" yaml:"enabled"`
	Volume  float64 `toml:"volume" yaml:"volume"` // Halvings of gain, 0 = unity
}

// Default returns the default configuration.
func Default() *Config {
	p := highlight.DefaultParams()
	return &Config{
		Scene: SceneConfig{
			Interactive:          5,
			NonInteractive:       []int{15, 15, 15},
			ConnectorProbability: 0.5,
			Bound:                100,
		},
		Motion: MotionConfig{
			NormalSpeed:   0.005,
			HoverSpeed:    0.001,
			StepHz:        60,
			MaxFrameSteps: 8,
		},
		Camera: CameraConfig{
			FOV:         75,
			Near:        0.1,
			Far:         2000,
			Distance:    100,
			MinDistance: 50,
			MaxDistance: 200,
			WheelFactor: 0.1,
			WheelNotch:  100,
		},
		Highlight: HighlightConfig{
			Mode:          highlight.ModeAnimated,
			HoverScale:    p.HoverScale,
			Easing:        "quad-out",
			EntityEase:    p.EntityEase,
			ConnectorEase: p.ConnectorEase,
			ConnectorHold: p.ConnectorHold,
		},
		Popup: PopupConfig{
			FadeIn:  300 * time.Millisecond,
			FadeOut: 300 * time.Millisecond,
		},
		Render: RenderConfig{
			FPS:            60,
			HUD:            true,
			Background:     "#ffffff",
			Interactive:    "#ffd700",
			NonInteractive: "#d3d3d3",
			Line:           "#d3d3d3",
			Accent:         "#ffd700",
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  -2,
		},
	}
}

// ConfigDir returns the dotfield config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "dotfield")
}

// DefaultPath returns the config file looked up when no path is given.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Resolve returns the explicit path, or the default path when it exists, or "" for built-in defaults.
func Resolve(path string) string {
	if path != "" {
		return path
	}
	if _, err := os.Stat(DefaultPath()); err == nil {
		return DefaultPath()
	}
	return ""
}

// Load overlays the file at path onto the defaults and validates the result.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(data, formatOf(path), cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Format is a config file syntax
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

func formatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Decode overlays data in the given format onto cfg.
func Decode(data []byte, format Format, cfg *Config) error {
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown keys: %v", undecoded)
		}
		return nil
	}
}

// Save writes cfg to path in the format its extension selects, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if formatOf(path) == FormatYAML {
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	}
	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks ranges and cross-field constraints.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	s := c.Scene
	check(s.Interactive >= 0, "scene.interactive must be >= 0, got %d", s.Interactive)
	for i, n := range s.NonInteractive {
		check(n >= 0, "scene.non_interactive[%d] must be >= 0, got %d", i, n)
	}
	check(s.ConnectorProbability >= 0 && s.ConnectorProbability <= 1,
		"scene.connector_probability must be in [0,1], got %v", s.ConnectorProbability)
	check(s.Bound > 0, "scene.bound must be > 0, got %v", s.Bound)

	m := c.Motion
	check(m.NormalSpeed >= 0, "motion.normal_speed must be >= 0, got %v", m.NormalSpeed)
	check(m.HoverSpeed >= 0, "motion.hover_speed must be >= 0, got %v", m.HoverSpeed)
	check(m.StepHz > 0 && m.StepHz <= maxStepHz, "motion.step_hz must be in (0,%d], got %d", maxStepHz, m.StepHz)
	check(m.MaxFrameSteps > 0, "motion.max_frame_steps must be > 0, got %d", m.MaxFrameSteps)

	cam := c.Camera
	check(cam.FOV > 0 && cam.FOV < 180, "camera.fov must be in (0,180), got %v", cam.FOV)
	check(cam.Near > 0 && cam.Far > cam.Near, "camera.near/far must satisfy 0 < near < far")
	check(cam.MinDistance > 0 && cam.MaxDistance >= cam.MinDistance,
		"camera.min_distance/max_distance must satisfy 0 < min <= max")
	check(cam.Distance >= cam.MinDistance && cam.Distance <= cam.MaxDistance,
		"camera.distance must be within [min_distance, max_distance], got %v", cam.Distance)

	h := c.Highlight
	check(h.Mode == highlight.ModeAnimated || h.Mode == highlight.ModeInstant,
		"highlight.mode must be %q or %q, got %q", highlight.ModeAnimated, highlight.ModeInstant, h.Mode)
	switch h.Easing {
	case "linear", "quad-in", "quad-out", "quad-in-out":
	default:
		check(false, "highlight.easing %q is not one of linear, quad-in, quad-out, quad-in-out", h.Easing)
	}
	check(h.HoverScale >= 1, "highlight.hover_scale must be >= 1, got %v", h.HoverScale)
	check(h.EntityEase >= 0 && h.ConnectorEase >= 0 && h.ConnectorHold >= 0, "highlight durations must be >= 0")

	check(c.Popup.FadeIn >= 0 && c.Popup.FadeOut >= 0, "popup fades must be >= 0")

	r := c.Render
	check(r.FPS > 0 && r.FPS <= 240, "render.fps must be in (0,240], got %d", r.FPS)
	for name, hex := range map[string]string{
		"background":      r.Background,
		"interactive":     r.Interactive,
		"non_interactive": r.NonInteractive,
		"line":            r.Line,
		"accent":          r.Accent,
	} {
		_, err := render.ParseHex(hex)
		check(err == nil, "render.%s: %v", name, err)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// StepDuration returns the fixed simulation step.
func (c *Config) StepDuration() time.Duration {
	return time.Second / time.Duration(c.Motion.StepHz)
}

// FrameDuration returns the render frame period.
func (c *Config) FrameDuration() time.Duration {
	return time.Second / time.Duration(c.Render.FPS)
}

// HighlightParams converts the highlight section for the effect constructors.
func (c *Config) HighlightParams() highlight.Params {
	return highlight.Params{
		HoverScale:    c.Highlight.HoverScale,
		EntityEase:    c.Highlight.EntityEase,
		ConnectorEase: c.Highlight.ConnectorEase,
		ConnectorHold: c.Highlight.ConnectorHold,
		Easing:        tween.ByName(c.Highlight.Easing),
	}
}

// Palette converts the render colours; call after Validate.
func (c *Config) Palette() render.Palette {
	p := render.DefaultPalette()
	set := func(dst *render.RGB, hex string) {
		if rgb, err := render.ParseHex(hex); err == nil {
			*dst = rgb
		}
	}
	set(&p.Background, c.Render.Background)
	set(&p.Interactive, c.Render.Interactive)
	set(&p.NonInteractive, c.Render.NonInteractive)
	set(&p.Line, c.Render.Line)
	set(&p.Accent, c.Render.Accent)
	return p
}
