package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/piwi3910/boardcut/internal/api"
	"github.com/piwi3910/boardcut/internal/engine"
	"github.com/piwi3910/boardcut/internal/export"
	"github.com/piwi3910/boardcut/internal/gcode"
	"github.com/piwi3910/boardcut/internal/importer"
	"github.com/piwi3910/boardcut/internal/model"
	"github.com/piwi3910/boardcut/internal/project"
)

// app carries what every command needs once flags are parsed.
type app struct {
	log        *logrus.Logger
	configPath string
	verbose    bool
	settings   model.Settings
}

// outputs are the optional files written for a solution.
type outputs struct {
	pdf, labels, dxf, xlsx, gcodeDir string
	profiles                         string
}

func (o *outputs) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.pdf, "pdf", "", "write a PDF cutting plan")
	cmd.Flags().StringVar(&o.labels, "labels", "", "write a PDF sheet of QR piece labels")
	cmd.Flags().StringVar(&o.dxf, "dxf", "", "write a DXF drawing of the boards")
	cmd.Flags().StringVar(&o.xlsx, "xlsx", "", "write an Excel workbook")
	cmd.Flags().StringVar(&o.gcodeDir, "gcode", "", "write one GCode program per board into this directory")
	cmd.Flags().StringVar(&o.profiles, "profiles", project.DefaultProfilesPath(), "custom GCode profiles file")
}

func newRootCmd(log *logrus.Logger) *cobra.Command {
	a := &app{log: log}

	root := &cobra.Command{
		Use:           "boardcut",
		Short:         "Place rectangular pieces on boards at minimum cost",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.verbose {
				a.log.SetLevel(logrus.DebugLevel)
			}
			settings, err := project.LoadSettings(a.configPath)
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}
			a.settings = settings
			a.log.WithField("config", a.configPath).Debug("settings loaded")
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", project.DefaultConfigPath(), "settings file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		a.solveCmd(),
		a.compareCmd(),
		a.serveCmd(),
		a.configCmd(),
		a.profilesCmd(),
	)
	return root
}

// loadPieces imports a piece file and logs its warnings.
func (a *app) loadPieces(path string) ([]model.Piece, error) {
	result := importer.ImportFile(path, a.settings)
	for _, w := range result.Warnings {
		a.log.WithField("file", path).Warn(w)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	a.log.WithFields(logrus.Fields{"file": path, "pieces": len(result.Pieces)}).Debug("pieces imported")
	return result.Pieces, nil
}

func (a *app) solveCmd() *cobra.Command {
	var (
		strategy string
		asJSON   bool
		out      outputs
	)

	cmd := &cobra.Command{
		Use:   "solve <file>",
		Short: "Solve a piece list and write the requested outputs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strategy != "" {
				s, ok := model.ParseStrategy(strategy)
				if !ok {
					return fmt.Errorf("%w: %q", engine.ErrUnknownStrategy, strategy)
				}
				a.settings.Strategy = s
			}

			pieces, err := a.loadPieces(args[0])
			if err != nil {
				return err
			}

			sol, err := engine.New(a.settings).Optimize(pieces)
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{
				"strategy": sol.Strategy,
				"pieces":   len(pieces),
				"boards":   sol.BoardCount(),
				"cost":     sol.TotalCost.String(),
				"elapsed":  sol.Stats.Elapsed,
			}).Info("solved")

			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), sol); err != nil {
					return err
				}
			} else {
				printSolution(cmd.OutOrStdout(), sol)
				printEstimate(cmd.OutOrStdout(), model.EstimateBoards(pieces, a.settings))
			}

			return a.writeOutputs(sol, a.settings, out)
		},
	}
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "exhaustive, branch-and-bound or greedy")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the solution as JSON")
	out.register(cmd)
	return cmd
}

func (a *app) compareCmd() *cobra.Command {
	var chart string

	cmd := &cobra.Command{
		Use:   "compare <file>",
		Short: "Run every strategy on a piece list and compare the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pieces, err := a.loadPieces(args[0])
			if err != nil {
				return err
			}

			results, err := engine.CompareStrategies(a.settings, pieces)
			if err != nil {
				return err
			}
			printComparison(cmd.OutOrStdout(), results)
			printEstimate(cmd.OutOrStdout(), model.EstimateBoards(pieces, a.settings))

			if chart != "" {
				if err := export.ExportComparisonChart(chart, results); err != nil {
					return err
				}
				a.log.WithField("file", chart).Info("chart written")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&chart, "chart", "", "write an HTML bar chart of the costs")
	return cmd
}

func (a *app) writeOutputs(sol model.Solution, settings model.Settings, out outputs) error {
	written := func(kind, path string) {
		a.log.WithFields(logrus.Fields{"kind": kind, "file": path}).Info("output written")
	}

	if out.pdf != "" {
		if err := export.ExportPDF(out.pdf, sol, settings); err != nil {
			return err
		}
		written("pdf", out.pdf)
	}
	if out.labels != "" {
		if err := export.ExportLabels(out.labels, sol); err != nil {
			return err
		}
		written("labels", out.labels)
	}
	if out.dxf != "" {
		if err := export.ExportDXF(out.dxf, sol); err != nil {
			return err
		}
		written("dxf", out.dxf)
	}
	if out.xlsx != "" {
		if err := export.ExportXLSX(out.xlsx, sol, settings); err != nil {
			return err
		}
		written("xlsx", out.xlsx)
	}
	if out.gcodeDir != "" {
		custom, err := project.LoadCustomProfiles(out.profiles)
		if err != nil {
			return fmt.Errorf("failed to load GCode profiles: %w", err)
		}
		gen := gcode.NewWithProfile(settings.GCode, gcode.FindProfile(settings.GCode.Profile, custom))
		for _, msg := range gcode.FormatViolations(gen.CheckSolution(sol)) {
			a.log.Warn(msg)
		}
		paths, err := gen.WriteAll(out.gcodeDir, sol)
		if err != nil {
			return err
		}
		for _, p := range paths {
			written("gcode", p)
		}
	}
	return nil
}

func (a *app) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.verbose {
				gin.SetMode(gin.ReleaseMode)
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return api.NewServer(a.settings, a.log).Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func (a *app) configCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the settings file",
	}
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default settings to the settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", a.configPath)
			}
			if err := project.SaveSettings(a.configPath, model.DefaultSettings()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", a.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), a.settings)
		},
	}
	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

func (a *app) profilesCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the available GCode profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			custom, err := project.LoadCustomProfiles(path)
			if err != nil {
				return err
			}
			printProfiles(cmd.OutOrStdout(), gcode.Profiles, custom, a.settings.GCode.Profile)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "profiles", project.DefaultProfilesPath(), "custom GCode profiles file")
	return cmd
}
