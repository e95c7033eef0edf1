package mywaifulist

import (
	"context"
)

// API defines the interface for MyWaifuList operations
type API interface {
	// TestConnection verifies the client can reach the API with its key
	TestConnection(ctx context.Context) error

	// Waifus
	GetWaifu(ctx context.Context, slug string) Result[Waifu]
	GetWaifuByID(ctx context.Context, id int) Result[Waifu]
	GetWaifuImages(ctx context.Context, id, page int) Result[Page[WaifuImage]]
	GetWaifusByPage(ctx context.Context, page int) Result[Page[FilteredWaifu]]
	GetDailyWaifu(ctx context.Context) Result[FilteredWaifu]
	GetRandomWaifu(ctx context.Context) Result[FilteredWaifu]

	// Airing
	GetSeasonalAnime(ctx context.Context) Result[[]FilteredSeries]
	GetBestWaifus(ctx context.Context) Result[[]FilteredWaifu]
	GetPopularWaifus(ctx context.Context) Result[[]FilteredWaifu]
	GetTrashWaifus(ctx context.Context) Result[[]FilteredWaifu]

	// Series
	GetSeries(ctx context.Context, slug string) Result[Series]
	GetSeriesByID(ctx context.Context, id int) Result[Series]
	GetSeriesByPage(ctx context.Context, page int) Result[Page[FilteredSeries]]
	GetAllSeries(ctx context.Context, season Season, year int) Result[[]FilteredSeries]
	GetSeriesWaifus(ctx context.Context, slug string) Result[[]FilteredWaifu]
	GetSeriesWaifusByID(ctx context.Context, id int) Result[[]FilteredWaifu]

	// Users
	GetUserProfile(ctx context.Context, id int) Result[User]
	GetUserWaifus(ctx context.Context, id int, listType WaifuListType, page int) Result[Page[FilteredWaifu]]
	GetUserLists(ctx context.Context, id int) Result[[]UserList]
	GetUserList(ctx context.Context, userID, listID int) Result[UserList]

	// Close releases the client's worker pool
	Close(ctx context.Context) error
}

var _ API = (*Client)(nil)
