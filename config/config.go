// Package config loads event manager settings from a TOML file.
//
// A file looks like:
//
//	move_threshold = 12.0
//	long_press_ms = 400
//	prevent_default_wheel = false
//	disable_key_events = true
//
//	[events]
//	click = "tap"
//
//	[keys]
//	p = "pen"
//
//	[tools]
//	left = "select"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/chrisuehlinger/turbo/event"
)

// FileName is the file looked up inside Dir.
const FileName = "turbo.toml"

// Config holds the tunables of one event manager. Zero or missing values
// keep the manager defaults.
type Config struct {
	MoveThreshold float64 `toml:"move_threshold,omitempty"`
	LongPressMS   int     `toml:"long_press_ms,omitempty"`

	// Pointers so that an absent key keeps the default of true.
	PreventDefaultMouse *bool `toml:"prevent_default_mouse,omitempty"`
	PreventDefaultTouch *bool `toml:"prevent_default_touch,omitempty"`
	PreventDefaultWheel *bool `toml:"prevent_default_wheel,omitempty"`

	DisableClickEvents bool `toml:"disable_click_events,omitempty"`
	DisableDragEvents  bool `toml:"disable_drag_events,omitempty"`
	DisableMoveEvents  bool `toml:"disable_move_events,omitempty"`
	DisableWheelEvents bool `toml:"disable_wheel_events,omitempty"`
	DisableKeyEvents   bool `toml:"disable_key_events,omitempty"`

	// Events renames kinds, keyed by kind ("click", "drag-start", ...).
	Events map[string]string `toml:"events,omitempty"`
	// Keys maps keyboard keys to tool names.
	Keys map[string]string `toml:"keys,omitempty"`
	// Tools sets the initial tool per click mode ("left", "right", ...).
	Tools map[string]string `toml:"tools,omitempty"`
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Decode reads a configuration from r. Unknown keys are logged and
// otherwise ignored.
func Decode(r io.Reader) (*Config, error) {
	var c Config
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	warnUndecoded(md)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	var c Config
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	warnUndecoded(md)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadOrDefault reads path, returning an empty configuration when the file
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	c, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("config: no file, using defaults", "path", path)
		return &Config{}, nil
	}
	return c, err
}

func warnUndecoded(md toml.MetaData) {
	for _, key := range md.Undecoded() {
		slog.Warn("config: unknown key", "key", key.String())
	}
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return nil
}

// Write stores c at path, creating the parent directory.
func (c *Config) Write(path string) error {
	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Dir returns the directory the configuration lives in: $XDG_CONFIG_HOME
// or the platform equivalent, plus "turbo".
func Dir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "turbo"), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	return filepath.Join(base, "turbo"), nil
}

// DefaultPath returns Dir joined with FileName.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Validate checks ranges and that every kind and click mode named in the
// tables exists.
func (c *Config) Validate() error {
	var errs []error
	if c.MoveThreshold < 0 {
		errs = append(errs, fmt.Errorf("%w: move_threshold %v is negative", ErrInvalid, c.MoveThreshold))
	}
	if c.LongPressMS < 0 {
		errs = append(errs, fmt.Errorf("%w: long_press_ms %d is negative", ErrInvalid, c.LongPressMS))
	}
	for _, k := range sortedKeys(c.Events) {
		if _, err := event.ParseKind(k); err != nil {
			errs = append(errs, fmt.Errorf("%w: [events] %w", ErrInvalid, err))
		} else if strings.TrimSpace(c.Events[k]) == "" {
			errs = append(errs, fmt.Errorf("%w: [events] %s has an empty name", ErrInvalid, k))
		}
	}
	for _, k := range sortedKeys(c.Tools) {
		if _, err := event.ParseClickMode(k); err != nil {
			errs = append(errs, fmt.Errorf("%w: [tools] %w", ErrInvalid, err))
		}
	}
	return errors.Join(errs...)
}

// Options converts c into manager options.
func (c *Config) Options() []event.Option {
	var opts []event.Option
	if c.MoveThreshold > 0 {
		opts = append(opts, event.WithMoveThreshold(c.MoveThreshold))
	}
	if c.LongPressMS > 0 {
		opts = append(opts, event.WithLongPressDuration(time.Duration(c.LongPressMS)*time.Millisecond))
	}
	if c.PreventDefaultMouse != nil || c.PreventDefaultTouch != nil || c.PreventDefaultWheel != nil {
		opts = append(opts, event.WithPreventDefault(orTrue(c.PreventDefaultMouse), orTrue(c.PreventDefaultTouch), orTrue(c.PreventDefaultWheel)))
	}

	var off []event.Category
	for cat, disabled := range map[event.Category]bool{
		event.ClickEvents: c.DisableClickEvents,
		event.DragEvents:  c.DisableDragEvents,
		event.MoveEvents:  c.DisableMoveEvents,
		event.WheelEvents: c.DisableWheelEvents,
		event.KeyEvents:   c.DisableKeyEvents,
	} {
		if disabled {
			off = append(off, cat)
		}
	}
	if len(off) > 0 {
		slices.Sort(off)
		opts = append(opts, event.WithoutEvents(off...))
	}

	for _, key := range sortedKeys(c.Events) {
		if k, err := event.ParseKind(key); err == nil {
			opts = append(opts, event.WithEventName(k, c.Events[key]))
		}
	}
	return opts
}

// Apply installs the key mappings and initial tools on m. Tool names are
// not checked against registered tools, so a tool can be configured before
// its instances exist.
func (c *Config) Apply(m *event.Manager) {
	for _, key := range sortedKeys(c.Keys) {
		m.MapKeyToTool(key, c.Keys[key])
	}
	for _, mode := range sortedKeys(c.Tools) {
		cm, err := event.ParseClickMode(mode)
		if err != nil {
			continue
		}
		m.SetTool(c.Tools[mode], cm)
	}
}

func orTrue(b *bool) bool {
	return b == nil || *b
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
