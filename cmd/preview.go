package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/shorthills-ai/resume-retailor/internal/llm"
	"github.com/shorthills-ai/resume-retailor/internal/logger"
	"github.com/shorthills-ai/resume-retailor/internal/resume"
	"github.com/shorthills-ai/resume-retailor/internal/retailor"
)

const (
	PromptViewSummary  = "View summary"
	PromptViewProjects = "View projects"
	PromptViewSkills   = "View skills"
	PromptDumpToFile   = "Dump result to file"
	PromptExit         = "Exit"
)

var previewPrompt = promptui.Select{
	Label: "Inspect the retailored resume",
	Items: []string{PromptViewSummary, PromptViewProjects, PromptViewSkills, PromptDumpToFile, PromptExit},
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Retailor a resume file and inspect the result interactively",
	Run: func(cmd *cobra.Command, _ []string) {
		preview(cmd)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringP("file", "f", "", "path to a resume JSON file")
	previewCmd.Flags().StringP("keywords", "k", "", "comma-separated job keywords to target")
	previewCmd.MarkFlagRequired("file")
}

// preview runs the pipeline once over a file and then loops over an
// inspection menu. Unlike the retailor command it is meant for a human
// terminal, so failures are fatal logs rather than JSON envelopes.
func preview(cmd *cobra.Command) {
	ctx := context.Background()

	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"), "")
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	path := cmd.Flag("file").Value.String()
	data, err := os.ReadFile(path)
	if err != nil {
		zlog.Fatal("reading resume file", zap.Error(err))
	}

	var doc resume.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		zlog.Fatal("parsing resume file", zap.Error(err))
	}

	if raw := cmd.Flag("keywords").Value.String(); strings.TrimSpace(raw) != "" {
		keywords := []any{}
		for _, kw := range strings.Split(raw, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		doc["keywords"] = keywords
	}

	usage, err := openUsageLog(config.UsageLogPath)
	if err != nil {
		zlog.Fatal("opening usage log", zap.Error(err))
	}
	if usage != nil {
		defer usage.Close()
	}

	completer, err := newCompleter(ctx, config, zlog)
	if err != nil {
		zlog.Fatal("building llm transport", zap.Error(err))
	}

	engine := retailor.New(llm.NewGateway(completer, usage, zlog), retailor.Config{
		MaxProjects:             config.MaxProjects,
		EnhanceNoJDDescriptions: config.EnhanceDescriptions,
	}, zlog)

	zlog.Info("retailoring", zap.String("file", path))

	result, err := engine.Run(ctx, doc)
	if err != nil {
		zlog.Fatal("retailoring failed", zap.Error(err))
	}

	for {
		_, action, err := previewPrompt.Run()
		if err != nil {
			zlog.Fatal("exiting", zap.Error(err))
		}

		if done := handlePreviewAction(action, result, zlog); done {
			return
		}
	}
}

func handlePreviewAction(action string, result resume.Document, zlog *zap.Logger) bool {
	switch action {
	case PromptViewSummary:
		fmt.Printf("\nTitle: %v\n\n%v\n\n", result["title"], result["summary"])
	case PromptViewProjects:
		pretty, _ := json.MarshalIndent(result["projects"], "", "  ")
		fmt.Printf("\n%s\n\n", pretty)
	case PromptViewSkills:
		pretty, _ := json.MarshalIndent(result["skills"], "", "  ")
		fmt.Printf("\n%s\n\n", pretty)
	case PromptDumpToFile:
		filename, err := dumpResult(result)
		if err != nil {
			zlog.Error("dumping result to file", zap.Error(err))
			return false
		}
		zlog.Info("dumped result to file", zap.String("filename", filename))
	case PromptExit:
		return true
	default:
		zlog.Error("invalid action", zap.String("action", action))
	}
	return false
}

func dumpResult(result resume.Document) (string, error) {
	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}

	file, err := os.CreateTemp("", app+"-*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := file.Write(pretty); err != nil {
		return "", err
	}

	return file.Name(), nil
}
