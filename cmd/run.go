package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"coffeechat/internal/apollo"
	"coffeechat/internal/email"
	"coffeechat/internal/export"
	"coffeechat/internal/logger"
	"coffeechat/internal/personas"
	"coffeechat/internal/workflow"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptSend         = "Send the drafts now"
	PromptDraftsToFile = "Dump drafts to file"
	PromptDraftsToCSV  = "Export drafts to CSV"
	PromptExit         = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Drafts are ready. What next?",
	Items: []string{PromptSend, PromptDraftsToFile, PromptDraftsToCSV, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: parse resume, search contacts, draft outreach emails",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("resume", "r", "", "path to the resume text file, overrides resume-file from config")
	runCmd.Flags().BoolP("auto-exit", "y", false, "do not prompt after generation, just dump drafts to file")

	viper.BindPFlag("resume-file", runCmd.Flags().Lookup("resume"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the coffeechat", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.ResumeFile == "" {
		logger.Fatal("a resume is required (set resume-file in the config or the --resume flag)")
	}

	params, err := searchParamsFromConfig(config)
	if err != nil {
		logger.Fatal("building search params", zap.Error(err))
	}

	w, err := buildWorkflow(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the workflow", zap.Error(err))
	}

	result, err := w.Run(ctx, workflow.ResumeSource{Path: config.ResumeFile}, params)
	if err != nil {
		logger.Fatal("running the pipeline", zap.Error(err))
	}

	if result.Warning != "" {
		logger.Warn("pipeline finished degraded", zap.String("warning", result.Warning))
	}

	for _, failure := range result.Failures {
		logger.Warn("contact skipped",
			zap.String("contact", failure.ContactName),
			zap.String("stage", failure.Stage),
			zap.String("reason", failure.Reason),
		)
	}

	if len(result.Drafts) == 0 {
		logger.Info("exiting", zap.String("reason", "no drafts generated"))
		return
	}

	drafts := &email.Drafts{Items: result.Drafts}
	logger.Info("drafts ready", zap.Int("count", drafts.Len()))

	if cmd.Flag("auto-exit").Value.String() == "true" {
		filename, err := drafts.DumpToTmpFile()
		if err != nil {
			logger.Fatal("dumping drafts to file", zap.Error(err))
		}
		logger.Info("dumped drafts to file", zap.String("filename", filename))
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, config, drafts, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, action string, config *Config, drafts *email.Drafts, logger *zap.Logger) error {
	switch action {
	case PromptSend:
		dispatcher, err := newDispatcher(config.Email, logger)
		if err != nil {
			return err
		}
		sent := dispatcher.Dispatch(ctx, drafts.Items)
		logger.Info("dispatch finished", zap.Int("sent", sent), zap.Int("total", drafts.Len()))
		return nil
	case PromptDraftsToFile:
		filename, err := drafts.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump drafts to file: %w", err)
		}
		logger.Info("dumped drafts to file", zap.String("filename", filename))
		return nil
	case PromptDraftsToCSV:
		paths, err := export.Drafts(exportDir(config), "drafts", drafts)
		if err != nil {
			return fmt.Errorf("export drafts: %w", err)
		}
		logger.Info("exported drafts", zap.Strings("files", paths))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// searchParamsFromConfig merges persona filters into the configured search.
func searchParamsFromConfig(config *Config) (*apollo.SearchParams, error) {
	params := config.Search
	if params == nil {
		params = &apollo.SearchParams{}
	}
	if config.Persona != "" {
		persona, err := personas.Parse(config.Persona)
		if err != nil {
			return nil, err
		}
		filters, _ := personas.Get(persona)
		filters.Apply(params)
	}
	return params, nil
}

func exportDir(config *Config) string {
	if config.ExportDir != "" {
		return config.ExportDir
	}
	return "export"
}
