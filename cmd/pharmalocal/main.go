package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pharmalocal/pharmalocal/internal/config"
	"github.com/pharmalocal/pharmalocal/internal/domain/backup"
	"github.com/pharmalocal/pharmalocal/internal/domain/legacy"
	"github.com/pharmalocal/pharmalocal/internal/domain/medicine"
	"github.com/pharmalocal/pharmalocal/internal/domain/patient"
	"github.com/pharmalocal/pharmalocal/internal/domain/reaction"
	"github.com/pharmalocal/pharmalocal/internal/domain/report"
	"github.com/pharmalocal/pharmalocal/internal/domain/treatment"
	"github.com/pharmalocal/pharmalocal/internal/platform/middleware"
	"github.com/pharmalocal/pharmalocal/internal/platform/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pharmalocal",
		Short: "Pharmacy inventory and treatment planning server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(backupCmd())
	rootCmd.AddCommand(restoreCmd())
	rootCmd.AddCommand(resetCmd())
	rootCmd.AddCommand(reportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	if os.Getenv("ENV") == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// app bundles the store and domain services every subcommand needs.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	store      *store.Store
	medicines  *medicine.Service
	patients   *patient.Service
	treatments *treatment.Service
	reactions  *reaction.Service
	backup     *backup.Service
	migrator   *legacy.Migrator
	reports    *report.Service
}

func newApp(logger zerolog.Logger) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	st, err := store.Open(filepath.Join(cfg.DataDir, "db"))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	a := &app{
		cfg:        cfg,
		log:        logger,
		store:      st,
		medicines:  medicine.NewService(medicine.NewLevelDBRepository(st)),
		patients:   patient.NewService(patient.NewLevelDBRepository(st)),
		treatments: treatment.NewService(treatment.NewLevelDBRepository(st)),
		reactions:  reaction.NewService(reaction.NewLevelDBRepository(st)),
		backup:     backup.NewService(st),
		migrator:   legacy.NewMigrator(st, cfg.LegacyDataFile, logger),
	}
	a.reports = report.NewService(a.medicines, a.patients, a.treatments, a.reactions,
		cfg.CenterName, cfg.DefaultDoseHour, logger)
	return a, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Error().Err(err).Msg("closing store")
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	logger := newLogger()

	a, err := newApp(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start")
	}
	defer a.close()
	logger.Info().Str("data_dir", a.cfg.DataDir).Msg("store opened")

	// One-time import of the flat legacy data file.
	if err := a.migrator.Migrate(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("legacy migration failed")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(middleware.BodyLimit("1M", "32M"))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: a.cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "2.0.0",
		})
	})

	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: a.cfg.RateLimitRPS,
		BurstSize:         a.cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	medicine.NewHandler(a.medicines).RegisterRoutes(apiV1)
	patient.NewHandler(a.patients).RegisterRoutes(apiV1)
	treatment.NewHandler(a.treatments).RegisterRoutes(apiV1)
	reaction.NewHandler(a.reactions).RegisterRoutes(apiV1)
	backup.NewHandler(a.backup).RegisterRoutes(apiV1)

	htmlWriter, err := report.NewHTMLWriter()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build print renderer")
	}
	report.NewHandler(a.reports, report.NewExcelWriter(), report.NewPDFWriter(), htmlWriter).RegisterRoutes(apiV1)

	go func() {
		addr := ":" + a.cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Import the legacy flat data file into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			a, err := newApp(logger)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.migrator.Migrate(cmd.Context()); err != nil {
				return err
			}
			migrated, err := a.migrator.IsMigrated()
			if err != nil {
				return err
			}
			logger.Info().Bool("migrated", migrated).Msg("migration finished")
			return nil
		},
	}
}

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export all data as a JSON backup",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			a, err := newApp(logger)
			if err != nil {
				return err
			}
			defer a.close()

			doc, err := a.backup.Export(cmd.Context())
			if err != nil {
				return err
			}

			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = filepath.Join(a.cfg.ExportDir,
					fmt.Sprintf("pharmalocal_backup_%s.json", time.Now().Format("2006-01-02")))
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(out, doc, 0o644); err != nil {
				return err
			}
			logger.Info().Str("path", out).Int("bytes", len(doc)).Msg("backup written")
			return nil
		},
	}
	cmd.Flags().String("out", "", "output file path")
	return cmd
}

func restoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Replace all data from a JSON backup",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			in, _ := cmd.Flags().GetString("in")
			if in == "" {
				return fmt.Errorf("--in is required")
			}
			doc, err := os.ReadFile(in)
			if err != nil {
				return err
			}

			a, err := newApp(logger)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.backup.Import(cmd.Context(), doc); err != nil {
				return err
			}
			logger.Info().Str("path", in).Msg("backup restored")
			return nil
		},
	}
	cmd.Flags().String("in", "", "backup file to restore")
	return cmd
}

func resetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every record from the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("refusing to wipe the store without --yes")
			}

			logger := newLogger()
			a, err := newApp(logger)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.backup.ClearAll(cmd.Context()); err != nil {
				return err
			}
			logger.Info().Msg("store cleared")
			return nil
		},
	}
	cmd.Flags().Bool("yes", false, "confirm deletion of all data")
	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the full spreadsheet report",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			a, err := newApp(logger)
			if err != nil {
				return err
			}
			defer a.close()

			data, err := a.reports.Workbook(cmd.Context(), report.NewExcelWriter())
			if err != nil {
				return err
			}

			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = filepath.Join(a.cfg.ExportDir,
					fmt.Sprintf("reporte_farmacia_%s.xlsx", time.Now().Format("2006-01-02")))
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			logger.Info().Str("path", out).Int("bytes", len(data)).Msg("report written")
			return nil
		},
	}
	cmd.Flags().String("out", "", "output file path")
	return cmd
}
