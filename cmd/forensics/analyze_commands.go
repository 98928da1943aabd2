package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"media-forensics/backend/internal/analysis"
	"media-forensics/backend/internal/app"
	"media-forensics/backend/internal/scoring"
)

func newAnalyzeCommands(ctx *commandContext) []*cobra.Command {
	linkCmd := &cobra.Command{
		Use:   "link <url>",
		Short: "Score a URL and print the verdict as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app.App) error {
				result, err := a.Analyzer.Link(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printResult(cmd, result)
			})
		},
	}

	imageCmd := &cobra.Command{
		Use:   "image <file>",
		Short: "Analyze an image file and print the verdict as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open image: %w", err)
			}
			defer file.Close()
			img, _, err := analysis.DecodeImage(file)
			if err != nil {
				return err
			}
			return ctx.withApp(func(a *app.App) error {
				return printResult(cmd, a.Analyzer.Image(cmd.Context(), img))
			})
		},
	}

	videoCmd := &cobra.Command{
		Use:   "video <file>",
		Short: "Analyze a video file and print the verdict as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read video: %w", err)
			}
			return ctx.withApp(func(a *app.App) error {
				return printResult(cmd, a.Analyzer.Video(cmd.Context(), data))
			})
		},
	}

	audioCmd := &cobra.Command{
		Use:   "audio <file>",
		Short: "Analyze an audio file and print the verdict as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read audio: %w", err)
			}
			return ctx.withApp(func(a *app.App) error {
				return printResult(cmd, a.Analyzer.Audio(cmd.Context(), data))
			})
		},
	}

	return []*cobra.Command{linkCmd, imageCmd, videoCmd, audioCmd}
}

func printResult[V scoring.Verdict](cmd *cobra.Command, result scoring.Decision[V]) error {
	if result.Reasons == nil {
		result.Reasons = []scoring.Evidence{}
	}
	return writeJSON(cmd, result)
}
