package cmd

import (
	"github.com/spf13/cobra"

	"github.com/s0up4200/waifuctl/mywaifulist"
)

// seriesCmd groups the series commands
var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Look up anime and game series",
}

var seriesGetCmd = &cobra.Command{
	Use:   "get <id|slug>",
	Short: "Show a series by numeric id or slug",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeriesGet,
}

var seriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List series page by page",
	Args:  cobra.NoArgs,
	RunE:  runSeriesList,
}

var seriesWaifusCmd = &cobra.Command{
	Use:   "waifus <id|slug>",
	Short: "List the waifus appearing in a series",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeriesWaifus,
}

func init() {
	rootCmd.AddCommand(seriesCmd)
	seriesCmd.AddCommand(seriesGetCmd, seriesListCmd, seriesWaifusCmd)

	seriesListCmd.Flags().IntVar(&page, "page", 1, "page number")
}

func runSeriesGet(cmd *cobra.Command, args []string) error {
	var res mywaifulist.Result[mywaifulist.Series]
	if id, ok := idOrSlug(args[0]); ok {
		res = client.GetSeriesByID(cmd.Context(), id)
	} else {
		res = client.GetSeries(cmd.Context(), args[0])
	}

	series, err := res.Get()
	if err != nil {
		return err
	}
	return printOne(cmd, series, seriesView)
}

func runSeriesList(cmd *cobra.Command, args []string) error {
	if err := validatePage(); err != nil {
		return err
	}

	series, err := client.GetSeriesByPage(cmd.Context(), page).Get()
	if err != nil {
		return err
	}
	return printPage(cmd, series, filteredSeriesView)
}

func runSeriesWaifus(cmd *cobra.Command, args []string) error {
	var res mywaifulist.Result[[]mywaifulist.FilteredWaifu]
	if id, ok := idOrSlug(args[0]); ok {
		res = client.GetSeriesWaifusByID(cmd.Context(), id)
	} else {
		res = client.GetSeriesWaifus(cmd.Context(), args[0])
	}

	waifus, err := res.Get()
	if err != nil {
		return err
	}
	return printList(cmd, waifus, filteredWaifuView)
}
