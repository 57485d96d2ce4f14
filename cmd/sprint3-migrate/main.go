package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/taiwon1/sprint3/internal/config"
	"github.com/taiwon1/sprint3/internal/db"
	"github.com/taiwon1/sprint3/internal/logging"
)

type migrator struct {
	v      *viper.Viper
	logger *logrus.Logger
}

func (m *migrator) setup(cmd *cobra.Command, args []string) (err error) {
	if err = config.ReadFile(m.v); err != nil {
		return
	}
	if m.v.GetString(config.KeyDBURL) == "" {
		return errors.New("missing required --db-url param")
	}
	m.logger, err = logging.New(m.v.GetString(config.KeyLogLevel), m.v.GetString(config.KeyLogFormat), os.Stderr)
	if err != nil {
		return
	}
	goose.SetLogger(m.logger)
	return
}

func (m *migrator) dbURL() string {
	return m.v.GetString(config.KeyDBURL)
}

func newMigrateCommand(m *migrator) *cobra.Command {
	var version string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply migrations up to a version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := db.MigrateTo(cmd.Context(), m.dbURL(), version); err != nil {
				return err
			}
			m.logger.WithField("to", version).Info("migration complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&version, "to", "", "version to which the database should be migrated. May specify \"latest\" to migrate to the latest version.")
	cobra.CheckErr(cmd.MarkFlagRequired("to"))
	return cmd
}

func newStatusCommand(m *migrator) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the state of every migration and the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := db.Status(cmd.Context(), m.dbURL())
			if err != nil {
				return err
			}
			m.logger.WithField("version", version).Info("current schema version")
			return nil
		},
	}
}

func newRootCommand() *cobra.Command {
	m := &migrator{v: config.New()}
	cmd := &cobra.Command{
		Use:               "sprint3-migrate",
		Short:             "Manage the sprint3 database schema",
		SilenceUsage:      true,
		PersistentPreRunE: m.setup,
	}

	flags := cmd.PersistentFlags()
	flags.String(config.KeyConfig, "", "path to a YAML, JSON or TOML config file")
	flags.String(config.KeyDBURL, "", "URL-formatted connection string to the DB to operate upon")
	flags.String(config.KeyLogLevel, "info", "minimum level to log (debug, info, warn, error)")
	flags.String(config.KeyLogFormat, "text", "log output format (text or json)")
	cobra.CheckErr(m.v.BindPFlags(flags))

	cmd.AddCommand(newMigrateCommand(m), newStatusCommand(m))
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
