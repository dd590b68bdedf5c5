package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "tudu"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultFileName       = "todo.json"
	DefaultLogName        = "tudu.log"
	DefaultStorageKey     = "todos"
	DefaultDoubleClickMS  = 400
)

type Keymap struct {
	Quit         string `toml:"quit"`
	Add          string `toml:"add"`
	Up           string `toml:"up"`
	Down         string `toml:"down"`
	Toggle       string `toml:"toggle"`
	Rename       string `toml:"rename"`
	Delete       string `toml:"delete"`
	Clear        string `toml:"clear"`
	Notice       string `toml:"notice"`
	Grab         string `toml:"grab"`
	Copy         string `toml:"copy"`
	NextCategory string `toml:"next_category"`
	PrevCategory string `toml:"prev_category"`
	Confirm      string `toml:"confirm"`
	Cancel       string `toml:"cancel"`
}

type Storage struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
	Key     string `toml:"key"`
}

type Log struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

type Config struct {
	Storage       Storage  `toml:"storage"`
	Categories    []string `toml:"categories"`
	DoubleClickMS int      `toml:"double_click_ms"`
	Log           Log      `toml:"log"`
	Keys          Keymap   `toml:"keys"`
}

// ResolveConfigPath returns $XDG_CONFIG_HOME/tudu/config.toml, falling back
// to ~/.config/tudu/config.toml.
func ResolveConfigPath() string {
	return filepath.Join(DefaultConfigDir(), DefaultConfigFileName)
}

func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// LoadOrCreate reads the config at path, writing the defaults there first if
// the file does not exist. Relative storage and log paths are resolved
// against the config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, fmt.Errorf("write default config: %w", err)
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg.resolve(filepath.Dir(path)), nil
}

func (c Config) resolve(dir string) Config {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = "sqlite"
	}
	if c.Storage.Path == "" {
		if c.Storage.Backend == "file" {
			c.Storage.Path = DefaultFileName
		} else {
			c.Storage.Path = DefaultDBName
		}
	}
	if c.Storage.Key == "" {
		c.Storage.Key = DefaultStorageKey
	}
	if c.Log.Path == "" {
		c.Log.Path = DefaultLogName
	}
	if c.DoubleClickMS <= 0 {
		c.DoubleClickMS = DefaultDoubleClickMS
	}
	c.Categories = categories(c.Categories)
	c.Storage.Path = resolvePath(dir, c.Storage.Path)
	c.Log.Path = resolvePath(dir, c.Log.Path)
	c.Keys = c.Keys.withDefaults(Default().Keys)
	return c
}

// categories puts the empty "no category" choice first, exactly once, and
// drops duplicate names.
func categories(in []string) []string {
	out := []string{""}
	seen := map[string]bool{"": true}
	for _, c := range in {
		c = strings.TrimSpace(c)
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func resolvePath(dir, p string) string {
	if strings.HasPrefix(p, "file:") || filepath.IsAbs(p) {
		return p
	}
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return filepath.Join(dir, p)
}

// keyName maps the spelled-out "space" to the string bubbletea reports for
// the space bar.
func keyName(v string) string {
	if strings.EqualFold(strings.TrimSpace(v), "space") {
		return " "
	}
	return v
}

func (k Keymap) withDefaults(d Keymap) Keymap {
	pick := func(v, def string) string {
		v = keyName(v)
		if v == "" {
			return def
		}
		return v
	}
	return Keymap{
		Quit:         pick(k.Quit, d.Quit),
		Add:          pick(k.Add, d.Add),
		Up:           pick(k.Up, d.Up),
		Down:         pick(k.Down, d.Down),
		Toggle:       pick(k.Toggle, d.Toggle),
		Rename:       pick(k.Rename, d.Rename),
		Delete:       pick(k.Delete, d.Delete),
		Clear:        pick(k.Clear, d.Clear),
		Notice:       pick(k.Notice, d.Notice),
		Grab:         pick(k.Grab, d.Grab),
		Copy:         pick(k.Copy, d.Copy),
		NextCategory: pick(k.NextCategory, d.NextCategory),
		PrevCategory: pick(k.PrevCategory, d.PrevCategory),
		Confirm:      pick(k.Confirm, d.Confirm),
		Cancel:       pick(k.Cancel, d.Cancel),
	}
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the configuration written on first launch.
func Default() Config {
	return Config{
		Storage: Storage{
			Backend: "sqlite",
			Path:    DefaultDBName,
			Key:     DefaultStorageKey,
		},
		Categories:    []string{"", "Work", "Personal", "Errands"},
		DoubleClickMS: DefaultDoubleClickMS,
		Log: Log{
			Path:  DefaultLogName,
			Level: "info",
		},
		Keys: Keymap{
			Quit:         "q",
			Add:          "a",
			Up:           "k",
			Down:         "j",
			Toggle:       " ",
			Rename:       "e",
			Delete:       "d",
			Clear:        "C",
			Notice:       "?",
			Grab:         "m",
			Copy:         "y",
			NextCategory: "tab",
			PrevCategory: "shift+tab",
			Confirm:      "enter",
			Cancel:       "esc",
		},
	}
}
