package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"media-forensics/backend/internal/app"
	"media-forensics/backend/internal/scoring"
)

func newIndicatorsCommand(ctx *commandContext) *cobra.Command {
	indicatorsCmd := &cobra.Command{
		Use:   "indicators",
		Short: "Manage link scoring indicators",
	}

	importCmd := &cobra.Command{
		Use:   "import <csv>",
		Short: "Import kind,value rows into the indicator store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app.App) error {
				imported, err := a.Indicators.LoadFromCSV(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d indicators from %s\n", imported, args[0])
				return nil
			})
		},
	}

	var kindFlag string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the effective indicator sets as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := scoring.IndicatorKinds
			if kindFlag != "" {
				kind, err := scoring.ParseIndicatorKind(kindFlag)
				if err != nil {
					return err
				}
				kinds = []scoring.IndicatorKind{kind}
			}
			return ctx.withApp(func(a *app.App) error {
				snapshot := a.Indicators.Snapshot()
				out := make(map[scoring.IndicatorKind][]string, len(kinds))
				for _, kind := range kinds {
					values := snapshot.List(kind)
					if values == nil {
						values = []string{}
					}
					out[kind] = values
				}
				return writeJSON(cmd, out)
			})
		},
	}
	listCmd.Flags().StringVar(&kindFlag, "kind", "", "Only list one kind (tld, shortener, keyword, phrase)")

	removeCmd := &cobra.Command{
		Use:   "remove <kind> <value>",
		Short: "Remove a stored indicator",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(func(a *app.App) error {
				if err := a.Indicators.Remove(args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s %s\n", args[0], args[1])
				return nil
			})
		},
	}

	indicatorsCmd.AddCommand(importCmd, listCmd, removeCmd)
	return indicatorsCmd
}
