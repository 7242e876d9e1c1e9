package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/botize/appserver/utils"
)

var (
	configPath string
	listenAddr string
	verbose    bool
)

var log utils.Logger

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address, overrides the config file")

	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "appserver",
	Short: "Hosts Botize applications behind the uniform command protocol.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zapcore.InfoLevel
		if verbose {
			level = zapcore.DebugLevel
		}
		log = utils.MustMakeCommandLogger(level)
	},
}
