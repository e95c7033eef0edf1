package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bndr/gotabulate"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/s0up4200/waifuctl/filter"
	"github.com/s0up4200/waifuctl/mywaifulist"
)

const maxCellSize = 60

// view describes how values of one type are laid out in a table
type view[T any] struct {
	headers []string
	row     func(T) []string
}

// printOne prints a single entity as a field/value table or as JSON
func printOne[T any](cmd *cobra.Command, item T, v view[T]) error {
	out := cmd.OutOrStdout()
	if jsonOutput() {
		return writeJSON(out, item)
	}

	values := v.row(item)
	rows := lo.Map(v.headers, func(header string, i int) []string {
		return []string{header, values[i]}
	})
	_, err := fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows))
	return err
}

// printList filters items and prints them as a table or JSON array
func printList[T any](cmd *cobra.Command, items []T, v view[T]) error {
	items, err := applyFilter(items)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput() {
		return writeJSON(out, items)
	}
	if len(items) == 0 {
		_, err := fmt.Fprintln(out, "No results found.")
		return err
	}

	_, err = fmt.Fprintln(out, renderTable(v.headers, lo.Map(items, func(item T, _ int) []string {
		return v.row(item)
	})))
	return err
}

// printPage filters one page of results and prints it with its position
func printPage[E mywaifulist.Entity](cmd *cobra.Command, page mywaifulist.Page[E], v view[E]) error {
	data, err := applyFilter(page.Data)
	if err != nil {
		return err
	}
	page.Data = data

	out := cmd.OutOrStdout()
	if jsonOutput() {
		return writeJSON(out, page)
	}

	if len(page.Data) == 0 {
		fmt.Fprintln(out, "No results found.")
	} else {
		fmt.Fprintln(out, renderTable(v.headers, lo.Map(page.Data, func(item E, _ int) []string {
			return v.row(item)
		})))
	}

	footer := fmt.Sprintf("Page %d of %d", page.CurrentPage, page.LastPage)
	if page.Total > 0 {
		footer += fmt.Sprintf(" (%d total)", page.Total)
	}
	if page.HasNextPage() {
		next, _ := page.NextPage()
		footer += fmt.Sprintf(", next: --page %d", next)
	}
	_, err = fmt.Fprintln(out, footer)
	return err
}

// applyFilter narrows items with --filter, --preset or nothing
func applyFilter[T any](items []T) ([]T, error) {
	var presets map[string]string
	if cfg != nil {
		presets = cfg.Filters
	}

	expression, err := filter.Resolve(filterExpr, preset, presets, "")
	if err != nil {
		return nil, err
	}
	if expression == "" {
		return items, nil
	}

	f, err := filter.Compile[T](expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	matched, err := f.Apply(items)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("filter", expression).
		Int("total", len(items)).
		Int("matched", len(matched)).
		Msg("Applied filter")

	return matched, nil
}

func jsonOutput() bool {
	return cfg != nil && cfg.Output.Format == "json"
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func renderTable(headers []string, rows [][]string) string {
	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(maxCellSize)
	return t.Render("grid")
}

func itoa(n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.Itoa(n)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func seriesName(s *mywaifulist.FilteredSeries) string {
	if s == nil {
		return "-"
	}
	return s.Name
}

var (
	waifuView = view[mywaifulist.Waifu]{
		headers: []string{"ID", "Name", "Original Name", "Series", "Origin", "Likes", "Trash", "Popularity", "Husbando", "Tags", "URL"},
		row: func(w mywaifulist.Waifu) []string {
			tags := lo.Map(w.Tags, func(t mywaifulist.Tag, _ int) string { return t.Name })
			return []string{
				strconv.Itoa(w.ID), w.Name, orDash(w.OriginalName), seriesName(w.Series), orDash(w.Origin),
				itoa(w.Likes), itoa(w.Trash), itoa(w.PopularityRank), yesNo(w.Husbando),
				orDash(strings.Join(tags, ", ")), orDash(w.URL),
			}
		},
	}

	filteredWaifuView = view[mywaifulist.FilteredWaifu]{
		headers: []string{"ID", "Name", "Type", "Likes", "Trash", "Husbando", "Slug"},
		row: func(w mywaifulist.FilteredWaifu) []string {
			return []string{
				strconv.Itoa(w.ID), w.Name, orDash(w.Type), itoa(w.Likes), itoa(w.Trash),
				yesNo(w.Husbando), orDash(w.Slug),
			}
		},
	}

	imageView = view[mywaifulist.WaifuImage]{
		headers: []string{"ID", "Size", "NSFW", "Image"},
		row: func(img mywaifulist.WaifuImage) []string {
			size := "-"
			if img.Width > 0 && img.Height > 0 {
				size = fmt.Sprintf("%dx%d", img.Width, img.Height)
			}
			return []string{strconv.Itoa(img.ID), size, yesNo(img.IsNsfw), img.Image}
		},
	}

	seriesView = view[mywaifulist.Series]{
		headers: []string{"ID", "Name", "Original Name", "Type", "Studio", "Release", "Episodes", "Waifus", "URL"},
		row: func(s mywaifulist.Series) []string {
			studio := "-"
			if s.Studio != nil {
				studio = s.Studio.Name
			}
			return []string{
				strconv.Itoa(s.ID), s.Name, orDash(s.OriginalName), orDash(s.Type), studio,
				orDash(s.Release), itoa(s.EpisodeCount), strconv.Itoa(len(s.Waifus)), orDash(s.URL),
			}
		},
	}

	filteredSeriesView = view[mywaifulist.FilteredSeries]{
		headers: []string{"ID", "Name", "Type", "Episodes", "Slug"},
		row: func(s mywaifulist.FilteredSeries) []string {
			return []string{strconv.Itoa(s.ID), s.Name, orDash(s.Type), itoa(s.EpisodeCount), orDash(s.Slug)}
		},
	}

	userView = view[mywaifulist.User]{
		headers: []string{"ID", "Name", "Verified", "Liked", "Trashed", "Created", "Images", "Joined"},
		row: func(u mywaifulist.User) []string {
			return []string{
				strconv.Itoa(u.ID), u.Name, yesNo(u.Verified), itoa(u.WaifusLiked), itoa(u.WaifusTrashed),
				itoa(u.WaifusCreated), itoa(u.ImagesUploaded), orDash(u.CreatedAt),
			}
		},
	}

	userListView = view[mywaifulist.UserList]{
		headers: []string{"ID", "Name", "Waifus", "Updated"},
		row: func(l mywaifulist.UserList) []string {
			return []string{strconv.Itoa(l.ID), l.Name, strconv.Itoa(len(l.Waifus)), orDash(l.UpdatedAt)}
		},
	}
)
