package mywaifulist

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// GetWaifu retrieves a waifu by slug or numeric id
func (c *Client) GetWaifu(ctx context.Context, slug string) Result[Waifu] {
	return Fetch(ctx, c, "waifu/"+url.PathEscape(slug), SingleOf[Waifu]())
}

// GetWaifuByID retrieves a waifu by numeric id
func (c *Client) GetWaifuByID(ctx context.Context, id int) Result[Waifu] {
	return c.GetWaifu(ctx, strconv.Itoa(id))
}

// GetWaifuImages retrieves one page of a waifu's gallery
func (c *Client) GetWaifuImages(ctx context.Context, id, page int) Result[Page[WaifuImage]] {
	return Fetch(ctx, c, fmt.Sprintf("waifu/%d/images?page=%d", id, page), PageOf[WaifuImage]())
}

// GetWaifusByPage retrieves one page of all waifus
func (c *Client) GetWaifusByPage(ctx context.Context, page int) Result[Page[FilteredWaifu]] {
	return Fetch(ctx, c, fmt.Sprintf("waifu?page=%d", page), PageOf[FilteredWaifu]())
}

// GetDailyWaifu retrieves the waifu of the day
func (c *Client) GetDailyWaifu(ctx context.Context) Result[FilteredWaifu] {
	return Fetch(ctx, c, "meta/daily", SingleOf[FilteredWaifu]())
}

// GetRandomWaifu retrieves a random waifu
func (c *Client) GetRandomWaifu(ctx context.Context) Result[FilteredWaifu] {
	return Fetch(ctx, c, "meta/random", SingleOf[FilteredWaifu]())
}

// GetSeasonalAnime retrieves the series airing this season
func (c *Client) GetSeasonalAnime(ctx context.Context) Result[[]FilteredSeries] {
	return Fetch(ctx, c, "airing", ListOf[FilteredSeries]())
}

// GetBestWaifus retrieves the best waifus of the current season
func (c *Client) GetBestWaifus(ctx context.Context) Result[[]FilteredWaifu] {
	return Fetch(ctx, c, "airing/best", ListOf[FilteredWaifu]())
}

// GetPopularWaifus retrieves the most popular waifus of the current season
func (c *Client) GetPopularWaifus(ctx context.Context) Result[[]FilteredWaifu] {
	return Fetch(ctx, c, "airing/popular", ListOf[FilteredWaifu]())
}

// GetTrashWaifus retrieves the most trashed waifus of the current season
func (c *Client) GetTrashWaifus(ctx context.Context) Result[[]FilteredWaifu] {
	return Fetch(ctx, c, "airing/trash", ListOf[FilteredWaifu]())
}

// GetSeries retrieves a series by slug or numeric id
func (c *Client) GetSeries(ctx context.Context, slug string) Result[Series] {
	return Fetch(ctx, c, "series/"+url.PathEscape(slug), SingleOf[Series]())
}

// GetSeriesByID retrieves a series by numeric id
func (c *Client) GetSeriesByID(ctx context.Context, id int) Result[Series] {
	return c.GetSeries(ctx, strconv.Itoa(id))
}

// GetSeriesByPage retrieves one page of all series
func (c *Client) GetSeriesByPage(ctx context.Context, page int) Result[Page[FilteredSeries]] {
	return Fetch(ctx, c, fmt.Sprintf("series?page=%d", page), PageOf[FilteredSeries]())
}

// GetAllSeries retrieves every series that aired in the given season
func (c *Client) GetAllSeries(ctx context.Context, season Season, year int) Result[[]FilteredSeries] {
	return Fetch(ctx, c, fmt.Sprintf("airing/%s/%d", season, year), ListOf[FilteredSeries]())
}

// GetSeriesWaifus retrieves the waifus appearing in a series given by slug or id
func (c *Client) GetSeriesWaifus(ctx context.Context, slug string) Result[[]FilteredWaifu] {
	return Fetch(ctx, c, "series/"+url.PathEscape(slug)+"/waifus", ListOf[FilteredWaifu]())
}

// GetSeriesWaifusByID retrieves the waifus appearing in a series given by id
func (c *Client) GetSeriesWaifusByID(ctx context.Context, id int) Result[[]FilteredWaifu] {
	return c.GetSeriesWaifus(ctx, strconv.Itoa(id))
}

// GetUserProfile retrieves a user's public profile
func (c *Client) GetUserProfile(ctx context.Context, id int) Result[User] {
	return Fetch(ctx, c, fmt.Sprintf("user/%d", id), SingleOf[User]())
}

// GetUserWaifus retrieves one page of a user's liked, trashed or created waifus
func (c *Client) GetUserWaifus(ctx context.Context, id int, listType WaifuListType, page int) Result[Page[FilteredWaifu]] {
	return Fetch(ctx, c, fmt.Sprintf("user/%d/%s?page=%d", id, listType, page), PageOf[FilteredWaifu]())
}

// GetUserLists retrieves all lists curated by a user
func (c *Client) GetUserLists(ctx context.Context, id int) Result[[]UserList] {
	return Fetch(ctx, c, fmt.Sprintf("user/%d/lists", id), ListOf[UserList]())
}

// GetUserList retrieves a single curated list of a user
func (c *Client) GetUserList(ctx context.Context, userID, listID int) Result[UserList] {
	return Fetch(ctx, c, fmt.Sprintf("user/%d/lists/%d", userID, listID), SingleOf[UserList]())
}
