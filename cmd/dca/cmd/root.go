package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "DCA"

const (
	flagLogLevel = "loglevel"
	flagDatadir  = "datadir"
	flagFormat   = "format"
)

var log zerolog.Logger

var rootCmd = &cobra.Command{
	Use:   "dca",
	Short: "Differential key recovery attacks on the toy SPN ciphers",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		err := bindFlags(cmd.Flags())
		if err != nil {
			return fmt.Errorf("could not bind flags: %w", err)
		}
		return initLogger()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String(flagLogLevel, "info", "log level (panic, fatal, error, warn, info, debug)")
	rootCmd.PersistentFlags().String(flagDatadir, "", "directory of the attack history database, history is disabled if empty")
	rootCmd.PersistentFlags().String(flagFormat, "json", "report encoding (json, yaml, cbor, msgpack)")

	rootCmd.AddCommand(attackCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	log = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func initLogger() error {
	level, err := zerolog.ParseLevel(strings.ToLower(viper.GetString(flagLogLevel)))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	log = log.Level(level)
	return nil
}

// bindFlags binds every flag of the command, including the inherited ones, to
// the viper key of the same name.
func bindFlags(flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if bindErr := viper.BindPFlag(f.Name, f); bindErr != nil && err == nil {
			err = fmt.Errorf("flag %s: %w", f.Name, bindErr)
		}
	})
	return err
}
