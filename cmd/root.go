package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const app = "resume-retailor"

// Config is the full engine configuration, merged from the optional config
// file, flags and environment variables.
type Config struct {
	// Provider selects the LLM transport: "azure" (default) or "gemini".
	Provider string `mapstructure:"provider"`

	Azure  *AzureConfig  `mapstructure:"azure"`
	Gemini *GeminiConfig `mapstructure:"gemini"`

	// UsageLogPath is where per-call token accounting lines are appended.
	UsageLogPath string `mapstructure:"usage-log-path"`

	MaxProjects         int  `mapstructure:"max-projects"`
	EnhanceDescriptions bool `mapstructure:"enhance-descriptions"`
}

type AzureConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Endpoint   string `mapstructure:"endpoint"`
	APIVersion string `mapstructure:"api-version"`
	Deployment string `mapstructure:"deployment"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "resume-retailor rewrites a resume to fit a job description using an LLM pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

var envBindings = map[string]string{
	"azure.api-key":     "AZURE_OPENAI_API_KEY",
	"azure.endpoint":    "AZURE_OPENAI_ENDPOINT",
	"azure.api-version": "AZURE_OPENAI_API_VERSION",
	"azure.deployment":  "AZURE_OPENAI_DEPLOYMENT",
	"gemini.api-key":    "GEMINI_API_KEY",
	"usage-log-path":    "LLM_USAGE_LOG_PATH",
}

func init() {
	// Missing .env is fine; real deployments configure the process
	// environment directly.
	_ = godotenv.Load()

	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("provider", "azure")
	viper.SetDefault("max-projects", 3)
	viper.SetDefault("enhance-descriptions", true)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-retailor.yaml in current directory)")
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
		viper.SetConfigName(app + ".yaml")
	}

	// The config file is optional; the environment alone is a complete
	// configuration. An explicitly given file must parse though.
	if err := viper.ReadInConfig(); err != nil {
		if cfgFile != "" {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	if config.Azure == nil {
		config.Azure = &AzureConfig{}
	}
	if config.Gemini == nil {
		config.Gemini = &GeminiConfig{}
	}

	return config, nil
}
