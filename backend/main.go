package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"store-rating/backend/app/services"
	"store-rating/backend/config"
	"store-rating/backend/initialize"
	"store-rating/backend/server"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "store-rating",
		Short:         "Store rating API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	load := func() (*config.Config, zerolog.Logger, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, zerolog.Nop(), err
		}
		return cfg, initialize.NewLogger(cfg.Log, os.Stdout), nil
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, log, err := load()
				if err != nil {
					return err
				}
				return serve(cmd.Context(), cfg, log)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema and exit",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, log, err := load()
				if err != nil {
					return err
				}
				gdb, err := initialize.OpenDB(cfg)
				if err != nil {
					return err
				}
				if sqlDB, err := gdb.DB(); err == nil {
					_ = sqlDB.Close()
				}
				log.Info().Str("driver", cfg.DB.Driver).Msg("schema migrated")
				return nil
			},
		},
		newCreateAdminCmd(load),
	)
	return root
}

func serve(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := initialize.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := server.NewHTTPServer(cfg.Server.Addr(), app.Router, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, log)
	return srv.Run(ctx)
}

func newCreateAdminCmd(load func() (*config.Config, zerolog.Logger, error)) *cobra.Command {
	var in services.RegisterInput
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account unless the e-mail is already registered",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			gdb, err := initialize.OpenDB(cfg)
			if err != nil {
				return err
			}
			app := initialize.NewApp(cfg, log, gdb, nil)
			defer app.Close()

			created, err := app.Users.EnsureAdmin(cmd.Context(), in)
			if err != nil {
				return err
			}
			if !created {
				log.Warn().Str("email", in.Email).Msg("account already exists; left unchanged")
				return nil
			}
			log.Info().Str("email", in.Email).Msg("admin account created")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "display name (20-60 characters)")
	f.StringVar(&in.Email, "email", "", "login e-mail")
	f.StringVar(&in.Password, "password", "", "password (8-16 characters, one uppercase, one of !@#$%^&*)")
	f.StringVar(&in.Address, "address", "", "postal address")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
