package cmd

import (
	"context"
	"log"

	"coffeechat/internal/export"
	"coffeechat/internal/logger"
	"coffeechat/internal/matcher"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for contacts without drafting emails",
	Run: func(cmd *cobra.Command, _ []string) {
		search(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("persona", "p", "", "persona to scope the search (Consulting, Social Good, External, Startup Career Fair)")
	searchCmd.Flags().Bool("csv", false, "export found contacts to CSV")

	viper.BindPFlag("persona", searchCmd.Flags().Lookup("persona"))
}

func search(cmd *cobra.Command) {
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

	params, err := searchParamsFromConfig(config)
	if err != nil {
		logger.Fatal("building search params", zap.Error(err))
	}

	client, err := newApolloClient(config, logger)
	if err != nil {
		logger.Fatal("building the apollo client", zap.Error(err))
	}

	contacts, err := client.SearchContacts(ctx, params)
	if err != nil {
		logger.Fatal("searching contacts", zap.Error(err))
	}

	logger.Info("contacts found",
		zap.Int("count", contacts.Len()),
		zap.Strings("names", contacts.Names()),
	)

	if contacts.Len() == 0 {
		return
	}

	if cmd.Flag("csv").Value.String() == "true" {
		matches := make([]*matcher.Match, 0, contacts.Len())
		for _, contact := range contacts.Items {
			matches = append(matches, &matcher.Match{Contact: contact})
		}
		paths, err := export.Contacts(exportDir(config), "contacts", matches)
		if err != nil {
			logger.Fatal("exporting contacts", zap.Error(err))
		}
		logger.Info("exported contacts", zap.Strings("files", paths))
		return
	}

	filename, err := contacts.DumpToTmpFile()
	if err != nil {
		logger.Fatal("dumping contacts to file", zap.Error(err))
	}
	logger.Info("dumped contacts to file", zap.String("filename", filename))
}
