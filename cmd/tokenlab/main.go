// Command tokenlab serves token holder, supply and wallet risk data for a
// tracked set of Injective tokens, and runs the burn and snapshot jobs.
package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"injective-token-lab/internal/config"
)

// LogLevel is read from LOG_LEVEL.
var LogLevel = "info"

// LogFormat is read from LOG_FORMAT.
var LogFormat = "json"

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "tokenlab",
	Short:         "Injective token holder, supply and wallet risk service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		LogLevel, LogFormat = cfg.LogLevel, cfg.LogFormat
		customizeLogger()
		return nil
	},
}

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	initLoggingEnv()
	customizeLogger()

	rootCmd.AddCommand(serveCmd, scanCmd, holdersCmd, supplyCmd)
}

func initLoggingEnv() {
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		LogLevel = logLevel
	}
	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		LogFormat = logFormat
	}
}

func customizeLogger() {
	if LogFormat == "pretty" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	switch LogLevel {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	gin.SetMode(gin.ReleaseMode)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("tokenlab failed")
	}
}
