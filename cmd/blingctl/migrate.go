package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/infrastructure/postgres/migrations"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/pkg/config"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/pkg/logger"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Gestiona el esquema de PostgreSQL (DATABASE_URL o DB_*)",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(mg *migrations.Migrator) error {
				if err := mg.Up(); err != nil {
					return err
				}
				return printVersion(cmd, mg)
			})
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Revierte migraciones (por defecto una)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(mg *migrations.Migrator) error {
				if err := mg.Down(steps); err != nil {
					return err
				}
				return printVersion(cmd, mg)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "cantidad de migraciones a revertir (0 = todas)")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Muestra la versión actual del esquema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(func(mg *migrations.Migrator) error {
				return printVersion(cmd, mg)
			})
		},
	})
	return cmd
}

func withMigrator(fn func(*migrations.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "blingctl"})
	mg, err := migrations.New(cfg.DB.ConnectionString(), log)
	if err != nil {
		return err
	}
	defer func() { _ = mg.Close() }()
	return fn(mg)
}

func printVersion(cmd *cobra.Command, mg *migrations.Migrator) error {
	version, dirty, err := mg.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "sin migraciones aplicadas")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "versión %d (dirty=%t)\n", version, dirty)
	return nil
}
