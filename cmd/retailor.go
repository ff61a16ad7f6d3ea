package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/shorthills-ai/resume-retailor/internal/llm"
	"github.com/shorthills-ai/resume-retailor/internal/llm/azure"
	"github.com/shorthills-ai/resume-retailor/internal/llm/gemini"
	"github.com/shorthills-ai/resume-retailor/internal/logger"
	"github.com/shorthills-ai/resume-retailor/internal/resume"
	"github.com/shorthills-ai/resume-retailor/internal/retailor"
	"github.com/shorthills-ai/resume-retailor/internal/secrets"
	"github.com/shorthills-ai/resume-retailor/internal/usagelog"
)

const invalidInputMessage = "Invalid JSON input"

var retailorCmd = &cobra.Command{
	Use:   "retailor",
	Short: "Read a resume JSON from stdin and write the retailored resume to stdout",
	Long: `Reads a single JSON-encoded resume from stdin, runs the retailoring
pipeline against the configured LLM provider and writes the resulting resume
to stdout. When the input carries a "keywords" array the output is projected
onto the fixed hiring schema; without it every input key is preserved.

On bad input a JSON error envelope is written to stdout and the exit code is
non-zero. Stdout carries nothing but the result document; diagnostics go to
the configured log sink.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRetailor(cmd)
	},
}

func init() {
	rootCmd.AddCommand(retailorCmd)

	retailorCmd.Flags().StringP("usage-log-path", "u", "", "file to append per-call LLM usage records to")
	retailorCmd.Flags().IntP("max-projects", "m", 3, "maximum number of projects selected in keyword mode")

	viper.BindPFlag("usage-log-path", retailorCmd.Flags().Lookup("usage-log-path"))
	viper.BindPFlag("max-projects", retailorCmd.Flags().Lookup("max-projects"))
}

// runRetailor is the stdin to stdout filter. Every failure path still prints
// exactly one JSON document to stdout.
func runRetailor(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	config, err := getConfig()
	if err != nil {
		return writeErrorEnvelope(out, unexpectedError(err))
	}

	// Diagnostics share the usage log sink so stdout stays a pure result
	// stream for the pipeline host.
	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), config.UsageLogPath)
	if err != nil {
		log.Printf("creating a logger: %v", err)
		zlog = zap.NewNop()
	}
	zlog = zlog.With(zap.String("invocation_id", uuid.NewString()))

	zlog.Info("starting the retailor run",
		zap.String("version", version),
		zap.String("provider", config.Provider),
	)

	input, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		zlog.Error("reading stdin", zap.Error(err))
		return writeErrorEnvelope(out, unexpectedError(err))
	}

	var doc resume.Document
	if err := json.Unmarshal(input, &doc); err != nil || doc == nil {
		zlog.Error("input is not a json object", zap.Error(err))
		return writeErrorEnvelope(out, invalidInputMessage)
	}

	usage, err := openUsageLog(config.UsageLogPath)
	if err != nil {
		zlog.Error("opening usage log", zap.Error(err))
		return writeErrorEnvelope(out, unexpectedError(err))
	}
	if usage != nil {
		defer usage.Close()
	}

	completer, err := newCompleter(ctx, config, zlog)
	if err != nil {
		zlog.Error("building llm transport", zap.Error(err))
		return writeErrorEnvelope(out, unexpectedError(err))
	}

	gateway := llm.NewGateway(completer, usage, zlog)
	engine := retailor.New(gateway, retailor.Config{
		MaxProjects:             config.MaxProjects,
		EnhanceNoJDDescriptions: config.EnhanceDescriptions,
	}, zlog)

	result, err := engine.Run(ctx, doc)
	if err != nil {
		zlog.Error("retailoring failed", zap.Error(err))
		return writeErrorEnvelope(out, unexpectedError(err))
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		zlog.Error("encoding result", zap.Error(err))
		return writeErrorEnvelope(out, unexpectedError(err))
	}

	fmt.Fprintln(out, string(encoded))
	zlog.Info("finished the retailor run")
	return nil
}

// newCompleter builds the configured LLM transport. Azure OpenAI is the
// default; Gemini is selected explicitly.
func newCompleter(ctx context.Context, config *Config, zlog *zap.Logger) (llm.Completer, error) {
	provider := strings.TrimSpace(strings.ToLower(config.Provider))

	switch provider {
	case "", "azure":
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "azure openai api key",
			Value: config.Azure.APIKey,
			File:  config.Azure.APIKeyFile,
			Env:   "AZURE_OPENAI_API_KEY",
		})
		if err != nil {
			return nil, err
		}

		zlog.Debug("using azure openai", logger.LLMFields("azure", config.Azure.Deployment)...)

		return azure.New(azure.Config{
			APIKey:     apiKey,
			Endpoint:   config.Azure.Endpoint,
			APIVersion: config.Azure.APIVersion,
			Deployment: config.Azure.Deployment,
		})
	case "gemini":
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: config.Gemini.APIKey,
			File:  config.Gemini.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, err
		}

		zlog.Debug("using gemini", logger.LLMFields("gemini", config.Gemini.Model)...)

		return gemini.New(ctx, apiKey, config.Gemini.Model)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", config.Provider)
	}
}

func openUsageLog(path string) (*usagelog.Log, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	return usagelog.Open(path)
}

func unexpectedError(err error) string {
	return "An unexpected error occurred: " + err.Error()
}

// writeErrorEnvelope prints the error document to stdout and returns an error
// so the process exits non-zero. The envelope is the contract with the
// pipeline host: stdout always carries exactly one JSON document.
func writeErrorEnvelope(w io.Writer, message string) error {
	envelope, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		fmt.Fprintln(w, `{"error": "internal error"}`)
		return err
	}
	fmt.Fprintln(w, string(envelope))
	return errors.New(message)
}
