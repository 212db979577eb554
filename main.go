package main

import (
	"context"
	"fmt"
	"os"

	"rmcloud/clients"
	"rmcloud/logging"
	"rmcloud/processor"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "rmcloud",
		Short: "Browse and pull documents from the reMarkable cloud",
		Long: `rmcloud is a CLI tool for browsing the documents and folders stored
in the reMarkable cloud and downloading their payloads.

It lists the cloud tree, prints a single document's payload, and pulls
the whole tree into a local directory.`,
		PersistentPreRunE: setup,
		SilenceUsage:      true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rmcloud.yaml)")
	rootCmd.PersistentFlags().String("token", "", "reMarkable cloud user token")
	rootCmd.PersistentFlags().String("base-url", clients.DefaultBaseURL, "document storage base URL")
	rootCmd.PersistentFlags().Int("retries", 2, "retries for transport errors and 5xx responses")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	// Bind flags to viper
	viper.BindPFlag("cloud.token", rootCmd.PersistentFlags().Lookup("token"))
	viper.BindPFlag("cloud.base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	viper.BindPFlag("cloud.retries", rootCmd.PersistentFlags().Lookup("retries"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	// Bind environment variables
	viper.BindEnv("cloud.token", "RMCLOUD_TOKEN")
	viper.BindEnv("cloud.base_url", "RMCLOUD_BASE_URL")
	viper.BindEnv("cloud.retries", "RMCLOUD_RETRIES")
	viper.BindEnv("log.level", "RMCLOUD_LOG_LEVEL")
	viper.BindEnv("log.format", "RMCLOUD_LOG_FORMAT")

	rootCmd.AddCommand(lsCmd, catCmd, pullCmd)
}

func initConfig() {
	if cfgFile != "" {
		// Use specified config file
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".rmcloud")
	}

	viper.AutomaticEnv() // read environment variables

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

func setup(cmd *cobra.Command, args []string) error {
	if err := logging.Init(logging.Config{
		Level:  viper.GetString("log.level"),
		Format: viper.GetString("log.format"),
	}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return validation()
}

func validation() error {
	if viper.GetString("cloud.token") == "" {
		return fmt.Errorf("cloud token is required")
	}
	if viper.GetInt("cloud.retries") < 0 {
		return fmt.Errorf("retries must not be negative")
	}
	return nil
}

func newProcessor(ctx context.Context) (*processor.Processor, error) {
	client := clients.NewCloudClient(
		viper.GetString("cloud.base_url"),
		viper.GetString("cloud.token"),
		clients.WithRetries(viper.GetInt("cloud.retries")),
	)
	if err := client.Authenticate(ctx); err != nil {
		return nil, fmt.Errorf("failed to authenticate with cloud: %w", err)
	}

	return processor.NewProcessor(&processor.Dependencies{
		Client: client,
	}), nil
}

func main() {
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
