package cmd

import (
	"fmt"
	"sync"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/waifuctl/mywaifulist"
)

// DefaultBatchConcurrency is the number of lookups waifu batch runs at once
const DefaultBatchConcurrency = 5

var (
	page             int
	batchConcurrency int
)

// waifuCmd groups the waifu commands
var waifuCmd = &cobra.Command{
	Use:   "waifu",
	Short: "Look up waifus",
}

var waifuGetCmd = &cobra.Command{
	Use:   "get <id|slug>",
	Short: "Show a waifu by numeric id or slug",
	Args:  cobra.ExactArgs(1),
	RunE:  runWaifuGet,
}

var waifuImagesCmd = &cobra.Command{
	Use:   "images <id>",
	Short: "List the gallery images of a waifu",
	Args:  cobra.ExactArgs(1),
	RunE:  runWaifuImages,
}

var waifuListCmd = &cobra.Command{
	Use:   "list",
	Short: "List waifus page by page",
	Args:  cobra.NoArgs,
	RunE:  runWaifuList,
}

var waifuDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Show today's waifu",
	Args:  cobra.NoArgs,
	RunE:  runWaifuDaily,
}

var waifuRandomCmd = &cobra.Command{
	Use:   "random",
	Short: "Show a random waifu",
	Args:  cobra.NoArgs,
	RunE:  runWaifuRandom,
}

var waifuBatchCmd = &cobra.Command{
	Use:   "batch <id|slug>...",
	Short: "Fetch several waifus concurrently",
	Long: `Fetch several waifus concurrently. Duplicate arguments are fetched once.
Lookups that fail are reported and the remaining results are still printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWaifuBatch,
}

func init() {
	rootCmd.AddCommand(waifuCmd)
	waifuCmd.AddCommand(waifuGetCmd, waifuImagesCmd, waifuListCmd, waifuDailyCmd, waifuRandomCmd, waifuBatchCmd)

	waifuImagesCmd.Flags().IntVar(&page, "page", 1, "page number")
	waifuListCmd.Flags().IntVar(&page, "page", 1, "page number")
	waifuBatchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", DefaultBatchConcurrency, "number of concurrent lookups")
}

func fetchWaifu(cmd *cobra.Command, arg string) mywaifulist.Result[mywaifulist.Waifu] {
	if id, ok := idOrSlug(arg); ok {
		return client.GetWaifuByID(cmd.Context(), id)
	}
	return client.GetWaifu(cmd.Context(), arg)
}

func runWaifuGet(cmd *cobra.Command, args []string) error {
	waifu, err := fetchWaifu(cmd, args[0]).Get()
	if err != nil {
		return err
	}
	return printOne(cmd, waifu, waifuView)
}

func runWaifuImages(cmd *cobra.Command, args []string) error {
	id, err := parseID("waifu id", args[0])
	if err != nil {
		return err
	}
	if err := validatePage(); err != nil {
		return err
	}

	images, err := client.GetWaifuImages(cmd.Context(), id, page).Get()
	if err != nil {
		return err
	}
	return printPage(cmd, images, imageView)
}

func runWaifuList(cmd *cobra.Command, args []string) error {
	if err := validatePage(); err != nil {
		return err
	}

	waifus, err := client.GetWaifusByPage(cmd.Context(), page).Get()
	if err != nil {
		return err
	}
	return printPage(cmd, waifus, filteredWaifuView)
}

func runWaifuDaily(cmd *cobra.Command, args []string) error {
	waifu, err := client.GetDailyWaifu(cmd.Context()).Get()
	if err != nil {
		return err
	}
	return printOne(cmd, waifu, filteredWaifuView)
}

func runWaifuRandom(cmd *cobra.Command, args []string) error {
	waifu, err := client.GetRandomWaifu(cmd.Context()).Get()
	if err != nil {
		return err
	}
	return printOne(cmd, waifu, filteredWaifuView)
}

func runWaifuBatch(cmd *cobra.Command, args []string) error {
	if batchConcurrency <= 0 {
		return fmt.Errorf("invalid concurrency: %d (must be positive)", batchConcurrency)
	}

	ids := lo.Uniq(args)
	results := make([]mywaifulist.Result[mywaifulist.Waifu], len(ids))

	// Create error group with limited concurrency
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(batchConcurrency)

	var mu sync.Mutex
	var failed int

	for i, arg := range ids {
		g.Go(func() error {
			var res mywaifulist.Result[mywaifulist.Waifu]
			if id, ok := idOrSlug(arg); ok {
				res = client.GetWaifuByID(ctx, id)
			} else {
				res = client.GetWaifu(ctx, arg)
			}

			if res.IsFailure() {
				logger.Warn().
					Err(res.Failure()).
					Str("waifu", arg).
					Msg("Failed to fetch waifu")
				mu.Lock()
				failed++
				mu.Unlock()
			}

			// Each goroutine owns its slot
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	waifus := lo.FilterMap(results, func(res mywaifulist.Result[mywaifulist.Waifu], _ int) (mywaifulist.Waifu, bool) {
		if res.IsFailure() {
			return mywaifulist.Waifu{}, false
		}
		return res.Value(), true
	})

	if err := printList(cmd, waifus, waifuView); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d lookups failed", failed, len(ids))
	}
	return nil
}

func validatePage() error {
	if page <= 0 {
		return fmt.Errorf("invalid page: %d (must be 1 or greater)", page)
	}
	return nil
}
