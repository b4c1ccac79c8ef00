package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/nbtranslate/internal/cli"
	"codeberg.org/snonux/nbtranslate/internal/logger"
	"codeberg.org/snonux/nbtranslate/internal/models"
	"codeberg.org/snonux/nbtranslate/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, flags)
	}

	// Stop between cells on Ctrl-C; nothing is written for an unfinished notebook
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, flags *cli.Flags) error {
	// Config file and environment fill in what the command line left unset
	cli.ApplyConfig(flags)
	logger.SetVerbose(flags.Verbose)

	ctx := cmd.Context()

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey(), flags.BaseURL)
		return lister.ListAvailableModels(ctx, os.Stdout)
	}

	if flags.BatchFile == "" && flags.Input == "" {
		return fmt.Errorf("no notebook given: pass a notebook path, --ipynb or --batch")
	}

	// Create processor
	proc, err := processor.NewProcessor(flags)
	if err != nil {
		return err
	}
	defer func() {
		if err := proc.Close(); err != nil {
			logger.Warn("failed to close translation cache: %v", err)
		}
	}()

	if flags.DryRun {
		fmt.Println("Dry run: no provider will be called")
	}

	// Handle batch processing
	if flags.BatchFile != "" {
		return proc.ProcessBatch(ctx)
	}

	return proc.ProcessNotebook(ctx, flags.Input, flags.OutputPath)
}
