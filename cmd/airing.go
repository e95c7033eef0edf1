package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/s0up4200/waifuctl/mywaifulist"
)

// airingCmd lists the anime airing this season
var airingCmd = &cobra.Command{
	Use:   "airing",
	Short: "List anime airing this season",
	Args:  cobra.NoArgs,
	RunE:  runAiring,
}

var airingBestCmd = &cobra.Command{
	Use:   "best",
	Short: "List the best waifus of the airing season",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printWaifuRanking(cmd, client.GetBestWaifus(cmd.Context()))
	},
}

var airingPopularCmd = &cobra.Command{
	Use:   "popular",
	Short: "List the most popular waifus of the airing season",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printWaifuRanking(cmd, client.GetPopularWaifus(cmd.Context()))
	},
}

var airingTrashCmd = &cobra.Command{
	Use:   "trash",
	Short: "List the most trashed waifus of the airing season",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printWaifuRanking(cmd, client.GetTrashWaifus(cmd.Context()))
	},
}

var airingSeasonCmd = &cobra.Command{
	Use:   "season <spring|summer|fall|winter> <year>",
	Short: "List all series of a season",
	Args:  cobra.ExactArgs(2),
	RunE:  runAiringSeason,
}

func init() {
	rootCmd.AddCommand(airingCmd)
	airingCmd.AddCommand(airingBestCmd, airingPopularCmd, airingTrashCmd, airingSeasonCmd)
}

func runAiring(cmd *cobra.Command, args []string) error {
	series, err := client.GetSeasonalAnime(cmd.Context()).Get()
	if err != nil {
		return err
	}
	return printList(cmd, series, filteredSeriesView)
}

func printWaifuRanking(cmd *cobra.Command, res mywaifulist.Result[[]mywaifulist.FilteredWaifu]) error {
	waifus, err := res.Get()
	if err != nil {
		return err
	}
	return printList(cmd, waifus, filteredWaifuView)
}

func runAiringSeason(cmd *cobra.Command, args []string) error {
	season, err := mywaifulist.ParseSeason(args[0])
	if err != nil {
		return err
	}

	year, err := strconv.Atoi(args[1])
	if err != nil || year < 1900 {
		return fmt.Errorf("invalid year: %q", args[1])
	}

	series, err := client.GetAllSeries(cmd.Context(), season, year).Get()
	if err != nil {
		return err
	}
	return printList(cmd, series, filteredSeriesView)
}
