package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIURL          = "http://127.0.0.1:7433"
	DefaultLogLevel        = "info"
	DefaultDBFileName      = "fileshelf.db"
	DefaultCatalogFileName = "catalog.json"
	DefaultFolderIDLength  = 7
	DefaultOrphanPolicy    = "keep"
	DefaultWatchDebounceMS = 250

	appDirName     = "fileshelf"
	configFileName = "fileshelf.toml"

	configDirEnvKey = "FILESHELF_CONFIG_DIR"
	apiURLEnvKey    = "FILESHELF_API_URL"
	dbPathEnvKey    = "FILESHELF_DB"
	catalogEnvKey   = "FILESHELF_CATALOG"
	logLevelEnvKey  = "FILESHELF_LOG_LEVEL"
)

// ImportConfig configures the import workflow.
type ImportConfig struct {
	IDLength     int    `toml:"id_length"`
	OrphanPolicy string `toml:"orphan_policy"`
}

// WatchConfig configures catalog document watching in the server.
type WatchConfig struct {
	Enabled    bool `toml:"enabled"`
	DebounceMS int  `toml:"debounce_ms"`
}

// Config defines runtime configuration for fileshelf.
type Config struct {
	APIURL      string       `toml:"api_url"`
	DBPath      string       `toml:"db_path"`
	CatalogPath string       `toml:"catalog_path"`
	LogLevel    string       `toml:"log_level"`
	LogFile     string       `toml:"log_file"`
	Import      ImportConfig `toml:"import"`
	Watch       WatchConfig  `toml:"watch"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		APIURL:   DefaultAPIURL,
		LogLevel: DefaultLogLevel,
		Import: ImportConfig{
			IDLength:     DefaultFolderIDLength,
			OrphanPolicy: DefaultOrphanPolicy,
		},
		Watch: WatchConfig{
			DebounceMS: DefaultWatchDebounceMS,
		},
	}
}

func loadFile(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// Dir returns the application directory holding the config file and, by
// default, the database and catalog document.
func Dir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(configDirEnvKey)); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDirName), nil
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

var allowedKeys = []string{
	"api_url",
	"db_path",
	"catalog_path",
	"log_level",
	"log_file",
	"import.id_length",
	"import.orphan_policy",
	"watch.enabled",
	"watch.debounce_ms",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	return slices.Contains(allowedKeys, key)
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "db_path":
		return c.DBPath, nil
	case "catalog_path":
		return c.CatalogPath, nil
	case "log_level":
		return c.LogLevel, nil
	case "log_file":
		return c.LogFile, nil
	case "import.id_length":
		return strconv.Itoa(c.Import.IDLength), nil
	case "import.orphan_policy":
		return c.Import.OrphanPolicy, nil
	case "watch.enabled":
		return strconv.FormatBool(c.Watch.Enabled), nil
	case "watch.debounce_ms":
		return strconv.Itoa(c.Watch.DebounceMS), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load reads the config file and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	if err := loadFile(filepath.Join(dir, configFileName), &cfg); err != nil {
		return nil, err
	}

	if apiURL := os.Getenv(apiURLEnvKey); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if dbPath := os.Getenv(dbPathEnvKey); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if catalogPath := os.Getenv(catalogEnvKey); catalogPath != "" {
		cfg.CatalogPath = catalogPath
	}

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(dir, DefaultDBFileName)
	}
	if cfg.CatalogPath == "" {
		cfg.CatalogPath = filepath.Join(dir, DefaultCatalogFileName)
	}
	cfg.normalize()

	return &cfg, nil
}

func (c *Config) normalize() {
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Import.IDLength <= 0 {
		c.Import.IDLength = DefaultFolderIDLength
	}
	if strings.TrimSpace(c.Import.OrphanPolicy) == "" {
		c.Import.OrphanPolicy = DefaultOrphanPolicy
	}
	if c.Watch.DebounceMS <= 0 {
		c.Watch.DebounceMS = DefaultWatchDebounceMS
	}
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "import.id_length", "watch.debounce_ms":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	case "watch.enabled":
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be true or false", key)
		}
		return parsed, nil
	case "import.orphan_policy":
		if value != "keep" && value != "remove" {
			return nil, fmt.Errorf("%s must be keep or remove", key)
		}
		return value, nil
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	childRaw, ok := data[parts[0]]
	if !ok {
		child := map[string]any{}
		data[parts[0]] = child
		return setNestedKey(child, parts[1:], value)
	}
	child, ok := childRaw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot set nested key %q", strings.Join(parts, "."))
	}
	return setNestedKey(child, parts[1:], value)
}
