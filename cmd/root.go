package cmd

import (
	"log"
	"time"

	"coffeechat/internal/apollo"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "coffeechat"

	defaultApolloRateLimit  = 50
	defaultApolloRateWindow = time.Minute
	defaultEmailRateLimit   = 20
	defaultEmailRateWindow  = time.Hour
)

type Config struct {
	ResumeFile        string               `mapstructure:"resume-file"`
	Search            *apollo.SearchParams `mapstructure:"search"`
	Persona           string               `mapstructure:"persona"`
	MinRelevanceScore float64              `mapstructure:"min-relevance-score"`
	ExportDir         string               `mapstructure:"export-dir"`
	Apollo            *ApolloConfig        `mapstructure:"apollo"`
	AI                *AIConfig            `mapstructure:"ai"`
	Email             *EmailConfig         `mapstructure:"email"`
}

type ApolloConfig struct {
	APIKeyFile string        `mapstructure:"api-key-file"`
	RateLimit  int           `mapstructure:"rate-limit"`
	RateWindow time.Duration `mapstructure:"rate-window"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type EmailConfig struct {
	RateLimit  int           `mapstructure:"rate-limit"`
	RateWindow time.Duration `mapstructure:"rate-window"`
	SMTP       *SMTPConfig   `mapstructure:"smtp"`
}

type SMTPConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	PasswordFile string `mapstructure:"password-file"`
	From         string `mapstructure:"from"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "coffeechat is a cli for finding relevant professional contacts and drafting outreach emails",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("apollo.api-key-file", "APOLLO_API_KEY_FILE"); err != nil {
		log.Fatalf("binding APOLLO_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is coffeechat.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config is not needed for the version command.
	if versionCmd.CalledAs() != "" {
		return
	}

	// Local .env files hold key file paths in development. Missing file is fine.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
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
