package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/meysamhadeli/wsengine/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the config reads.
const EnvPrefix = "WSENGINE"

// ConfigFileName is the base name searched for in the working directory.
const ConfigFileName = "wsengine-config"

// configCacheEntry holds cached configuration with metadata
type configCacheEntry struct {
	config  *Config
	modTime time.Time
}

// Global cache for configuration files
var (
	configCache = make(map[string]*configCacheEntry)
	cacheMutex  sync.RWMutex
)

// Config represents the structure of the configuration file
type Config struct {
	Version        string   `mapstructure:"version"`
	Root           string   `mapstructure:"root"`
	MaxBytes       int64    `mapstructure:"max_bytes"`
	TopK           int      `mapstructure:"top_k"`
	LogLevel       string   `mapstructure:"log_level"`
	IgnorePatterns []string `mapstructure:"ignore_patterns"`
	UseIgnoreFile  bool     `mapstructure:"use_ignore_file"`
	HTTPAddr       string   `mapstructure:"http_addr"`
	AccessToken    string   `mapstructure:"access_token"`
	Theme          string   `mapstructure:"theme"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Version:        "0.3.0",
	Root:           "",
	MaxBytes:       200000,
	TopK:           10,
	LogLevel:       "info",
	IgnorePatterns: []string{},
	UseIgnoreFile:  true,
	HTTPAddr:       "127.0.0.1:8765",
	AccessToken:    "",
	Theme:          "dracula",
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and environment
// variables, and returns the final config. Precedence is flag, then env, then
// file, then default.
func LoadConfigs(rootCmd *cobra.Command, cwd string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if configType := GetConfigFileType(cfgFile); configType != "" {
			v.SetConfigType(configType)
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	} else if path := findConfigFile(cwd); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType(GetConfigFileType(path))
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	} else {
		logger.Debug("config: no configuration file found in %s, using defaults", cwd)
	}

	if rootCmd != nil {
		bindFlags(v, rootCmd)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &config, nil
}

// setDefaults sets all default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("version", DefaultConfig.Version)
	v.SetDefault("root", DefaultConfig.Root)
	v.SetDefault("max_bytes", DefaultConfig.MaxBytes)
	v.SetDefault("top_k", DefaultConfig.TopK)
	v.SetDefault("log_level", DefaultConfig.LogLevel)
	v.SetDefault("ignore_patterns", DefaultConfig.IgnorePatterns)
	v.SetDefault("use_ignore_file", DefaultConfig.UseIgnoreFile)
	v.SetDefault("http_addr", DefaultConfig.HTTPAddr)
	v.SetDefault("access_token", DefaultConfig.AccessToken)
	v.SetDefault("theme", DefaultConfig.Theme)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("root", EnvPrefix+"_ROOT")
	_ = v.BindEnv("max_bytes", EnvPrefix+"_MAX_BYTES")
	_ = v.BindEnv("top_k", EnvPrefix+"_TOP_K")
	_ = v.BindEnv("log_level", EnvPrefix+"_LOG_LEVEL")
	_ = v.BindEnv("use_ignore_file", EnvPrefix+"_USE_IGNORE_FILE")
	_ = v.BindEnv("http_addr", EnvPrefix+"_HTTP_ADDR")
	_ = v.BindEnv("access_token", EnvPrefix+"_ACCESS_TOKEN")
	_ = v.BindEnv("theme", EnvPrefix+"_THEME")
}

// bindFlags binds the CLI flags to configuration values. Only flags the user
// actually set override lower layers.
func bindFlags(v *viper.Viper, rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()
	for key, name := range map[string]string{
		"log_level":       "log-level",
		"use_ignore_file": "use-ignore-file",
		"theme":           "theme",
	} {
		if flag := flags.Lookup(name); flag != nil && flag.Changed {
			_ = v.BindPFlag(key, flag)
		}
	}
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML) that contains all the settings for the application.")

	rootCmd.PersistentFlags().String("log-level", DefaultConfig.LogLevel, "Minimum log level written to stderr: 'debug', 'info', 'warn' or 'error'.")
	rootCmd.PersistentFlags().Bool("use-ignore-file", DefaultConfig.UseIgnoreFile, "Read extra ignore globs from the workspace's .wsengine-ignore file.")
	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Syntax highlighting theme for --pretty output (e.g., 'dracula', 'monokai', 'github').")

	// Version flag
	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")
}

// GetConfigFileType returns the type of the configuration file based on its extension
func GetConfigFileType(filename string) string {
	if strings.HasSuffix(filename, ".json") {
		return "json"
	} else if strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") {
		return "yaml"
	}
	return ""
}

// findConfigFile returns the first wsengine-config.{yaml,yml,json} in dir.
func findConfigFile(dir string) string {
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		path := filepath.Join(dir, ConfigFileName+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadConfigWithCache loads configuration with caching support. A cached
// config is reused while its file's modification time is unchanged.
func LoadConfigWithCache(rootCmd *cobra.Command, cwd string) (*Config, error) {
	configFilePath := cfgFile
	if configFilePath == "" {
		configFilePath = findConfigFile(cwd)
	}

	// If no config file exists, return default configuration loading
	if configFilePath == "" {
		return LoadConfigs(rootCmd, cwd)
	}

	fileInfo, err := os.Stat(configFilePath)
	if err != nil {
		return LoadConfigs(rootCmd, cwd)
	}

	// Check cache first
	cacheMutex.RLock()
	if cached, exists := configCache[configFilePath]; exists {
		if fileInfo.ModTime().Equal(cached.modTime) {
			cacheMutex.RUnlock()
			return cached.config, nil
		}
	}
	cacheMutex.RUnlock()

	config, err := LoadConfigs(rootCmd, cwd)
	if err != nil {
		return nil, err
	}

	cacheMutex.Lock()
	configCache[configFilePath] = &configCacheEntry{
		config:  config,
		modTime: fileInfo.ModTime(),
	}
	cacheMutex.Unlock()

	return config, nil
}

// ClearConfigCache clears all cached configuration files
func ClearConfigCache() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	configCache = make(map[string]*configCacheEntry)
}

// InvalidateConfigCache removes a specific config file from cache
func InvalidateConfigCache(configPath string) {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	delete(configCache, configPath)
}
