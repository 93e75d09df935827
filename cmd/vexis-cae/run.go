package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/A6721jpn/vexis/internal/config"
	"github.com/A6721jpn/vexis/internal/pipeline"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vexis-cae",
		Short: "mesh-swap + set-reconstruction FEA pipeline",
	}
	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "run [job-dir ...]",
		Short: "prepare and solve one or more job directories",
		Args:  cobra.MinimumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			jobDirs, err := expandJobDirs(args)
			if err != nil {
				return err
			}

			jobs := make([]pipeline.JobSpec, 0, len(jobDirs))
			for _, dir := range jobDirs {
				job, err := discoverJob(dir)
				if err != nil {
					return fmt.Errorf("vexis-cae: %s: %w", dir, err)
				}
				jobs = append(jobs, job)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			batch := pipeline.RunBatch(ctx, jobs, cfg, logger)
			for _, r := range batch.Results {
				status := "ok"
				switch r.Outcome {
				case pipeline.OutcomeFailed:
					status = "failed"
				case pipeline.OutcomeCancelled:
					status = "cancelled"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", r.Name, status)
			}

			os.Exit(batch.ExitCode())
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to the run configuration file")
	return cmd
}

// expandJobDirs resolves each argument as a job directory, expanding any
// glob patterns a shell left unexpanded (quoted globs).
func expandJobDirs(args []string) ([]string, error) {
	var dirs []string
	for _, a := range args {
		matches, err := filepath.Glob(a)
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %w", a, err)
		}
		if len(matches) == 0 {
			dirs = append(dirs, a)
			continue
		}
		dirs = append(dirs, matches...)
	}
	return dirs, nil
}

// discoverJob builds a JobSpec from a job directory's conventional layout:
// exactly one *.vtk mesh file and one *.feb template file.
func discoverJob(dir string) (pipeline.JobSpec, error) {
	meshMatches, err := filepath.Glob(filepath.Join(dir, "*.vtk"))
	if err != nil {
		return pipeline.JobSpec{}, err
	}
	if len(meshMatches) != 1 {
		return pipeline.JobSpec{}, fmt.Errorf("expected exactly one .vtk mesh file, found %d", len(meshMatches))
	}

	templateMatches, err := filepath.Glob(filepath.Join(dir, "*.feb"))
	if err != nil {
		return pipeline.JobSpec{}, err
	}
	if len(templateMatches) != 1 {
		return pipeline.JobSpec{}, fmt.Errorf("expected exactly one .feb template file, found %d", len(templateMatches))
	}

	return pipeline.JobSpec{
		Name:         filepath.Base(filepath.Clean(dir)),
		MeshPath:     meshMatches[0],
		TemplatePath: templateMatches[0],
		OutputDir:    filepath.Join(dir, "results"),
	}, nil
}
