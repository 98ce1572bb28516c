package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/profile-optimizer/internal/fixtures"
	"github.com/spigell/profile-optimizer/internal/httpapi"
	"github.com/spigell/profile-optimizer/internal/pipeline"
)

const (
	app = "profile-optimizer"
)

type Config struct {
	Tinder   TinderConfig    `mapstructure:"tinder"`
	Fixtures fixtures.Config `mapstructure:"fixtures"`
	Sanitize SanitizeConfig  `mapstructure:"sanitize"`
	AI       AIConfig        `mapstructure:"ai"`
	Flags    FlagsConfig     `mapstructure:"flags"`
	Server   ServerConfig    `mapstructure:"server"`
}

type TinderConfig struct {
	Endpoint   string        `mapstructure:"endpoint"`
	Token      string        `mapstructure:"token"`
	TokenFile  string        `mapstructure:"token-file"`
	Iterations int           `mapstructure:"iterations"`
	Interval   time.Duration `mapstructure:"interval"`
}

type SanitizeConfig struct {
	ExtraDenyKeys []string `mapstructure:"extra-deny-keys"`
}

type AIConfig struct {
	Provider     string       `mapstructure:"provider"`
	MaxLogLength int          `mapstructure:"max-log-length"`
	OpenAI       OpenAIConfig `mapstructure:"openai"`
	Gemini       GeminiConfig `mapstructure:"gemini"`
}

type OpenAIConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	BaseURL    string `mapstructure:"base-url"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

// FlagsConfig holds the mode toggles.
type FlagsConfig struct {
	UseLocalData  bool `mapstructure:"use-local-data"`
	Development   bool `mapstructure:"development"`
	DataGathering bool `mapstructure:"data-gathering"`
}

type ServerConfig struct {
	Host           string `mapstructure:"host"`
	Port           string `mapstructure:"port"`
	DefaultCountry string `mapstructure:"default-country"`
}

// Options maps the mode toggles to pipeline options. Intermediate outputs are
// persisted in development and data-gathering modes.
func (f FlagsConfig) Options() pipeline.Options {
	return pipeline.Options{
		UseLocalFixtures:           f.UseLocalData,
		ObfuscateForCollection:     f.DataGathering,
		PersistIntermediateOutputs: f.Development || f.DataGathering,
	}
}

func (s ServerConfig) Handler() httpapi.Config {
	return httpapi.Config{DefaultCountry: s.DefaultCountry}
}

var envBindings = map[string]string{
	"ai.openai.api-key":    "OPENAI_API_KEY",
	"ai.openai.model":      "OPENAI_MODEL",
	"ai.gemini.api-key":    "GEMINI_API_KEY",
	"tinder.token":         "X_AUTH_TOKEN",
	"tinder.endpoint":      "TINDER_API_ENDPOINT",
	"flags.use-local-data": "FLAG_USE_LOCAL_DATA",
	"flags.development":    "FLAG_DEVELOPMENT",
	"flags.data-gathering": "FLAG_DATA_GATHERING",
	"server.port":          "PORT",
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "profile-optimizer suggests dating profile improvements based on potential dates",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("ai.provider", "openai")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.default-country", httpapi.DefaultCountry)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is profile-optimizer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Everything can come from the environment, so only an explicit or broken config is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
