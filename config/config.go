package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ankurk/repolens/constants/lipgloss"
	"github.com/ankurk/repolens/providers"
	"github.com/ankurk/repolens/ratelimit"
)

// Config is the complete application configuration, assembled from
// defaults, config file, environment variables, and CLI flags.
type Config struct {
	Theme               string                      `mapstructure:"theme"`
	OutputDir           string                      `mapstructure:"output_dir"`
	FilesPerChunk       int                         `mapstructure:"files_per_chunk"`
	ChunkLines          int                         `mapstructure:"chunk_lines"`
	MaxFileSize         int                         `mapstructure:"max_file_size"`
	UseSmartCompression bool                        `mapstructure:"use_smart_compression"`
	MaxIndentationLevel int                         `mapstructure:"max_indentation_level"`
	IndentationSpaces   int                         `mapstructure:"indentation_spaces"`
	ProcessingDelay     time.Duration               `mapstructure:"processing_delay"`
	IncludeOutline      bool                        `mapstructure:"include_outline"`
	EnableCache         bool                        `mapstructure:"enable_cache"`
	CacheDir            string                      `mapstructure:"cache_dir"`
	CacheMaxAge         time.Duration               `mapstructure:"cache_max_age"`
	AIProviderConfig    *providers.AIProviderConfig `mapstructure:"ai_provider_config"`
	RateLimits          map[string]ratelimit.Config `mapstructure:"rate_limits"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Theme:               "dracula",
	OutputDir:           "repo_analysis",
	FilesPerChunk:       8,
	ChunkLines:          150,
	MaxFileSize:         15000,
	UseSmartCompression: true,
	MaxIndentationLevel: 3,
	IndentationSpaces:   4,
	ProcessingDelay:     2 * time.Second,
	IncludeOutline:      true,
	EnableCache:         true,
	CacheDir:            "",
	CacheMaxAge:         7 * 24 * time.Hour,
	AIProviderConfig: &providers.AIProviderConfig{
		Provider:  "claude",
		BaseURL:   "",
		Model:     "claude-3-5-sonnet-20241022",
		MaxTokens: 8000,
		APIKey:    "",
	},
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and
// environment variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) *Config {
	var config *Config

	setDefaults()

	viper.AutomaticEnv()
	bindEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading config file: %v", err)))
			os.Exit(1)
		}
	} else {
		viper.SetConfigName("repolens-config")
		viper.AddConfigPath(cwd)

		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			viper.SetConfigType("json")
			if err := viper.ReadInConfig(); err != nil {
				fmt.Println(lipgloss.Yellow.Render("No configuration file found, using defaults"))
			}
		}
	}

	bindFlags(rootCmd)

	if err := viper.Unmarshal(&config); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Unable to decode into struct: %v", err)))
		os.Exit(1)
	}

	if config.RateLimits == nil {
		config.RateLimits = ratelimit.DefaultConfigs()
	}

	return config
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("theme", DefaultConfig.Theme)
	viper.SetDefault("output_dir", DefaultConfig.OutputDir)
	viper.SetDefault("files_per_chunk", DefaultConfig.FilesPerChunk)
	viper.SetDefault("chunk_lines", DefaultConfig.ChunkLines)
	viper.SetDefault("max_file_size", DefaultConfig.MaxFileSize)
	viper.SetDefault("use_smart_compression", DefaultConfig.UseSmartCompression)
	viper.SetDefault("max_indentation_level", DefaultConfig.MaxIndentationLevel)
	viper.SetDefault("indentation_spaces", DefaultConfig.IndentationSpaces)
	viper.SetDefault("processing_delay", DefaultConfig.ProcessingDelay)
	viper.SetDefault("include_outline", DefaultConfig.IncludeOutline)
	viper.SetDefault("enable_cache", DefaultConfig.EnableCache)
	viper.SetDefault("cache_dir", DefaultConfig.CacheDir)
	viper.SetDefault("cache_max_age", DefaultConfig.CacheMaxAge)
	viper.SetDefault("ai_provider_config.provider", DefaultConfig.AIProviderConfig.Provider)
	viper.SetDefault("ai_provider_config.base_url", DefaultConfig.AIProviderConfig.BaseURL)
	viper.SetDefault("ai_provider_config.model", DefaultConfig.AIProviderConfig.Model)
	viper.SetDefault("ai_provider_config.max_tokens", DefaultConfig.AIProviderConfig.MaxTokens)
	viper.SetDefault("ai_provider_config.api_key", DefaultConfig.AIProviderConfig.APIKey)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv() {
	_ = viper.BindEnv("theme", "THEME")
	_ = viper.BindEnv("output_dir", "OUTPUT_DIR")
	_ = viper.BindEnv("enable_cache", "ENABLE_CACHE")
	_ = viper.BindEnv("ai_provider_config.provider", "PROVIDER")
	_ = viper.BindEnv("ai_provider_config.base_url", "BASE_URL")
	_ = viper.BindEnv("ai_provider_config.model", "MODEL")
	_ = viper.BindEnv("ai_provider_config.api_key", "API_KEY", "ANTHROPIC_API_KEY")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))
	_ = viper.BindPFlag("output_dir", rootCmd.PersistentFlags().Lookup("output_dir"))
	_ = viper.BindPFlag("files_per_chunk", rootCmd.PersistentFlags().Lookup("files_per_chunk"))
	_ = viper.BindPFlag("use_smart_compression", rootCmd.PersistentFlags().Lookup("use_compression"))
	_ = viper.BindPFlag("max_indentation_level", rootCmd.PersistentFlags().Lookup("max_indentation"))
	_ = viper.BindPFlag("processing_delay", rootCmd.PersistentFlags().Lookup("processing_delay"))
	_ = viper.BindPFlag("include_outline", rootCmd.PersistentFlags().Lookup("include_outline"))
	_ = viper.BindPFlag("enable_cache", rootCmd.PersistentFlags().Lookup("enable_cache"))
	_ = viper.BindPFlag("ai_provider_config.provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("ai_provider_config.base_url", rootCmd.PersistentFlags().Lookup("base_url"))
	_ = viper.BindPFlag("ai_provider_config.model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("ai_provider_config.api_key", rootCmd.PersistentFlags().Lookup("api_key"))
}

// InitFlags initializes the persistent flags shared by all subcommands.
func InitFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to a configuration file (JSON or YAML).")

	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Terminal color theme for the report preview (e.g. 'dracula').")
	rootCmd.PersistentFlags().String("output_dir", DefaultConfig.OutputDir, "Base directory for generated reports.")
	rootCmd.PersistentFlags().Int("files_per_chunk", DefaultConfig.FilesPerChunk, "Number of files per analysis chunk.")
	rootCmd.PersistentFlags().Bool("use_compression", DefaultConfig.UseSmartCompression, "Compress deeply nested code before sending it for analysis.")
	rootCmd.PersistentFlags().Int("max_indentation", DefaultConfig.MaxIndentationLevel, "Maximum indentation depth kept by the compressor.")
	rootCmd.PersistentFlags().Duration("processing_delay", DefaultConfig.ProcessingDelay, "Pause between consecutive model calls.")
	rootCmd.PersistentFlags().Bool("include_outline", DefaultConfig.IncludeOutline, "Include tree-sitter declaration outlines in chunk content.")
	rootCmd.PersistentFlags().Bool("enable_cache", DefaultConfig.EnableCache, "Cache chunk analyses so unchanged repositories skip model calls.")

	rootCmd.Flags().BoolP("version", "v", false, "Print the application version.")

	rootCmd.PersistentFlags().String("provider", DefaultConfig.AIProviderConfig.Provider, "Model provider name (e.g. 'claude', 'ollama').")
	rootCmd.PersistentFlags().String("base_url", DefaultConfig.AIProviderConfig.BaseURL, "Override the provider's API base URL.")
	rootCmd.PersistentFlags().String("model", DefaultConfig.AIProviderConfig.Model, "Model name used for analysis.")
	rootCmd.PersistentFlags().String("api_key", DefaultConfig.AIProviderConfig.APIKey, "API key for the model provider.")
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
