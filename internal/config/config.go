package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"todocal/internal/query"
	"todocal/internal/task"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	AppDirName            = "todocal"
	EnvConfigPath         = "TODOCAL_CONFIG"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Toggle         string `toml:"toggle"`
	Delete         string `toml:"delete"`
	Detail         string `toml:"detail"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	Edit           string `toml:"edit"`
	Notes          string `toml:"notes"`
	Select         string `toml:"select"`
	SelectAll      string `toml:"select_all"`
	BulkComplete   string `toml:"bulk_complete"`
	BulkDelete     string `toml:"bulk_delete"`
	ClearCompleted string `toml:"clear_completed"`
	Search         string `toml:"search"`
	Filter         string `toml:"filter"`
	Category       string `toml:"category"`
	View           string `toml:"view"`
	PrevMonth      string `toml:"prev_month"`
	NextMonth      string `toml:"next_month"`
	DayNext        string `toml:"day_next"`
	DayPrev        string `toml:"day_prev"`
	Analytics      string `toml:"analytics"`
	DarkMode       string `toml:"dark_mode"`
	Export         string `toml:"export"`
	Import         string `toml:"import"`
	Help           string `toml:"help"`
}

type Config struct {
	DBPath          string `toml:"db_path"`
	DefaultFilter   string `toml:"default_filter"`
	DefaultCategory string `toml:"default_category"`
	LogFile         string `toml:"log_file"`
	LogLevel        string `toml:"log_level"`
	MetricsFile     string `toml:"metrics_file"`
	Keys            Keymap `toml:"keys"`
}

// ResolveConfigPath picks $TODOCAL_CONFIG, then the per-user config
// directory, then config.toml in the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, AppDirName, DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

// LoadOrCreate reads the config at path, writing the defaults there first
// when the file does not exist. Relative paths in the result are resolved
// against the config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(path), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.DefaultFilter == "" {
		cfg.DefaultFilter = string(query.StatusAll)
	}
	if _, err := query.ParseStatus(cfg.DefaultFilter); err != nil {
		return cfg, fmt.Errorf("default_filter: %w", err)
	}
	cfg.DefaultCategory = task.NormalizeCategory(cfg.DefaultCategory)
	return cfg.resolve(path), nil
}

// DefaultParams is the initial list view derived from the config.
func (c Config) DefaultParams() query.Params {
	p := query.DefaultParams()
	if s, err := query.ParseStatus(c.DefaultFilter); err == nil {
		p.Status = s
	}
	return p
}

func (c Config) resolve(path string) Config {
	dir := filepath.Dir(path)
	c.DBPath = resolvePath(dir, c.DBPath)
	c.LogFile = resolvePath(dir, c.LogFile)
	c.MetricsFile = resolvePath(dir, c.MetricsFile)
	return c
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) || p == ":memory:" {
		return p
	}
	return filepath.Join(dir, p)
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:          DefaultDBName,
		DefaultFilter:   string(query.StatusAll),
		DefaultCategory: task.DefaultCategory,
		LogLevel:        "info",
		Keys:            DefaultKeymap(),
	}
}

func DefaultKeymap() Keymap {
	return Keymap{
		Quit:           "q",
		Add:            "a",
		Up:             "k",
		Down:           "j",
		Toggle:         " ",
		Delete:         "d",
		Detail:         "enter",
		Confirm:        "enter",
		Cancel:         "esc",
		Edit:           "e",
		Notes:          "n",
		Select:         "x",
		SelectAll:      "A",
		BulkComplete:   "C",
		BulkDelete:     "D",
		ClearCompleted: "X",
		Search:         "/",
		Filter:         "f",
		Category:       "c",
		View:           "tab",
		PrevMonth:      "[",
		NextMonth:      "]",
		DayNext:        "J",
		DayPrev:        "K",
		Analytics:      "s",
		DarkMode:       "t",
		Export:         "E",
		Import:         "I",
		Help:           "?",
	}
}
