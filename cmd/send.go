package cmd

import (
	"context"
	"log"

	"coffeechat/internal/email"
	"coffeechat/internal/logger"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var sendCmd = &cobra.Command{
	Use:   "send <drafts-file>",
	Short: "Send drafts from a previously dumped drafts file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		send(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before sending")
}

func send(cmd *cobra.Command, path string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil {
		logger.Fatal("config is required")
	}

	drafts, err := email.LoadDraftsFromFile(path)
	if err != nil {
		logger.Fatal("loading drafts", zap.String("filename", path), zap.Error(err))
	}

	if drafts.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no drafts in file"))
		return
	}

	logger.Info("loaded drafts", zap.Int("count", drafts.Len()))

	if cmd.Flag("auto-approve").Value.String() != "true" {
		confirm := promptui.Select{
			Label: "Send these drafts?",
			Items: []string{"Yes", "No"},
		}
		_, answer, err := confirm.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if answer != "Yes" {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	dispatcher, err := newDispatcher(config.Email, logger)
	if err != nil {
		logger.Fatal("building the dispatcher", zap.Error(err))
	}

	sent := dispatcher.Dispatch(ctx, drafts.Items)
	logger.Info("dispatch finished", zap.Int("sent", sent), zap.Int("total", drafts.Len()))

	// Write the updated statuses back next to the originals.
	filename, err := drafts.DumpToTmpFile()
	if err != nil {
		logger.Fatal("dumping updated drafts", zap.Error(err))
	}
	logger.Info("dumped updated drafts", zap.String("filename", filename))
}
