package mywaifulist

import (
	"fmt"
	"strings"
)

// EntityKind names one of the fixed schemas a response body can be decoded into
type EntityKind int

const (
	// KindWaifu is the full character record
	KindWaifu EntityKind = iota + 1
	// KindFilteredWaifu is the abbreviated character used in listings
	KindFilteredWaifu
	// KindWaifuImage is one gallery image
	KindWaifuImage
	// KindSeries is the full series record
	KindSeries
	// KindFilteredSeries is the abbreviated series used in listings
	KindFilteredSeries
	// KindUser is a public profile
	KindUser
	// KindUserList is a user-curated list
	KindUserList
)

// String returns the string representation of an EntityKind
func (k EntityKind) String() string {
	switch k {
	case KindWaifu:
		return "waifu"
	case KindFilteredWaifu:
		return "filtered-waifu"
	case KindWaifuImage:
		return "waifu-image"
	case KindSeries:
		return "series"
	case KindFilteredSeries:
		return "filtered-series"
	case KindUser:
		return "user"
	case KindUserList:
		return "user-list"
	default:
		return "unknown"
	}
}

// Entity is the closed set of types the mapper knows how to decode
type Entity interface {
	Waifu | FilteredWaifu | WaifuImage | Series | FilteredSeries | User | UserList
	EntityKind() EntityKind
}

// Creator is the user who submitted a waifu or series
type Creator struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Studio represents the animation studio of a series
type Studio struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Waifu is the full character record returned by waifu/{id}
type Waifu struct {
	ID             int              `json:"id" validate:"required"`
	Slug           string           `json:"slug,omitempty"`
	Creator        *Creator         `json:"creator,omitempty"`
	URL            string           `json:"url,omitempty"`
	DisplayPicture string           `json:"display_picture,omitempty"`
	Name           string           `json:"name" validate:"required"`
	OriginalName   string           `json:"original_name,omitempty"`
	RomajiName     string           `json:"romaji_name,omitempty"`
	Romaji         string           `json:"romaji,omitempty"`
	Husbando       bool             `json:"husbando,omitempty"`
	Nsfw           bool             `json:"nsfw,omitempty"`
	Description    string           `json:"description,omitempty"`
	Weight         string           `json:"weight,omitempty"`
	Height         string           `json:"height,omitempty"`
	Bust           string           `json:"bust,omitempty"`
	Hip            string           `json:"hip,omitempty"`
	Waist          string           `json:"waist,omitempty"`
	BloodType      string           `json:"blood_type,omitempty"`
	Origin         string           `json:"origin,omitempty"`
	Age            int              `json:"age,omitempty"`
	BirthdayMonth  string           `json:"birthday_month,omitempty"`
	BirthdayDay    int              `json:"birthday_day,omitempty"`
	BirthdayYear   string           `json:"birthday_year,omitempty"`
	Likes          int              `json:"likes,omitempty"`
	Trash          int              `json:"trash,omitempty"`
	PopularityRank int              `json:"popularity_rank,omitempty"`
	LikeRank       int              `json:"like_rank,omitempty"`
	TrashRank      int              `json:"trash_rank,omitempty"`
	Tags           []Tag            `json:"tags,omitempty"`
	Appearances    []FilteredSeries `json:"appearances,omitempty"`
	Series         *FilteredSeries  `json:"series,omitempty"`
}

// EntityKind implements Entity
func (Waifu) EntityKind() EntityKind { return KindWaifu }

// Tag is a free-form label attached to a waifu
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// FilteredWaifu is the abbreviated waifu returned in listings
type FilteredWaifu struct {
	ID             int    `json:"id" validate:"required"`
	Slug           string `json:"slug,omitempty"`
	URL            string `json:"url,omitempty"`
	Name           string `json:"name" validate:"required"`
	OriginalName   string `json:"original_name,omitempty"`
	RomajiName     string `json:"romaji_name,omitempty"`
	DisplayPicture string `json:"display_picture,omitempty"`
	Description    string `json:"description,omitempty"`
	Likes          int    `json:"likes,omitempty"`
	Trash          int    `json:"trash,omitempty"`
	Type           string `json:"type,omitempty"`
	Husbando       bool   `json:"husbando,omitempty"`
	Nsfw           bool   `json:"nsfw,omitempty"`
	Relevance      int    `json:"relevance,omitempty"`
}

// EntityKind implements Entity
func (FilteredWaifu) EntityKind() EntityKind { return KindFilteredWaifu }

// WaifuImage is one gallery image of a waifu
type WaifuImage struct {
	ID        int    `json:"id" validate:"required"`
	WaifuID   int    `json:"waifu_id,omitempty"`
	IsNsfw    bool   `json:"is_nsfw,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Image     string `json:"image" validate:"required"`
}

// EntityKind implements Entity
func (WaifuImage) EntityKind() EntityKind { return KindWaifuImage }

// Series is the full series record returned by series/{id}
type Series struct {
	ID             int             `json:"id" validate:"required"`
	Name           string          `json:"name" validate:"required"`
	OriginalName   string          `json:"original_name,omitempty"`
	RomajiName     string          `json:"romaji_name,omitempty"`
	Slug           string          `json:"slug,omitempty"`
	Description    string          `json:"description,omitempty"`
	Type           string          `json:"type,omitempty"`
	URL            string          `json:"url,omitempty"`
	DisplayPicture string          `json:"display_picture,omitempty"`
	Release        string          `json:"release,omitempty"`
	AiringStart    string          `json:"airing_start,omitempty"`
	AiringEnd      string          `json:"airing_end,omitempty"`
	EpisodeCount   int             `json:"episode_count,omitempty"`
	Studio         *Studio         `json:"studio,omitempty"`
	Creator        *Creator        `json:"creator,omitempty"`
	Waifus         []FilteredWaifu `json:"waifus,omitempty"`
}

// EntityKind implements Entity
func (Series) EntityKind() EntityKind { return KindSeries }

// FilteredSeries is the abbreviated series returned in listings
type FilteredSeries struct {
	ID             int    `json:"id" validate:"required"`
	Name           string `json:"name" validate:"required"`
	OriginalName   string `json:"original_name,omitempty"`
	RomajiName     string `json:"romaji_name,omitempty"`
	Relevance      int    `json:"relevance,omitempty"`
	Slug           string `json:"slug,omitempty"`
	Description    string `json:"description,omitempty"`
	Type           string `json:"type,omitempty"`
	URL            string `json:"url,omitempty"`
	DisplayPicture string `json:"display_picture,omitempty"`
	EpisodeCount   int    `json:"episode_count,omitempty"`
}

// EntityKind implements Entity
func (FilteredSeries) EntityKind() EntityKind { return KindFilteredSeries }

// User is a public MyWaifuList profile
type User struct {
	ID             int    `json:"id" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Avatar         string `json:"avatar,omitempty"`
	Banner         string `json:"banner,omitempty"`
	Bio            string `json:"bio,omitempty"`
	Verified       bool   `json:"verified,omitempty"`
	WaifusCreated  int    `json:"waifus_created,omitempty"`
	WaifusLiked    int    `json:"waifus_liked,omitempty"`
	WaifusTrashed  int    `json:"waifus_trashed,omitempty"`
	ImagesUploaded int    `json:"images_uploaded,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// EntityKind implements Entity
func (User) EntityKind() EntityKind { return KindUser }

// UserList is a user-curated list of waifus
type UserList struct {
	ID          int             `json:"id" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description,omitempty"`
	Order       int             `json:"order,omitempty"`
	CreatedAt   string          `json:"created_at,omitempty"`
	UpdatedAt   string          `json:"updated_at,omitempty"`
	Waifus      []FilteredWaifu `json:"waifus,omitempty"`
}

// EntityKind implements Entity
func (UserList) EntityKind() EntityKind { return KindUserList }

// Page wraps one page of a paginated listing together with its position metadata
type Page[E Entity] struct {
	Data         []E    `json:"data" validate:"required"`
	CurrentPage  int    `json:"current_page" validate:"required"`
	LastPage     int    `json:"last_page" validate:"required"`
	PerPage      int    `json:"per_page,omitempty"`
	Total        int    `json:"total,omitempty"`
	From         int    `json:"from,omitempty"`
	To           int    `json:"to,omitempty"`
	Path         string `json:"path,omitempty"`
	FirstPageURL string `json:"first_page_url,omitempty"`
	LastPageURL  string `json:"last_page_url,omitempty"`
	NextPageURL  string `json:"next_page_url,omitempty"`
	PrevPageURL  string `json:"prev_page_url,omitempty"`
}

// HasNextPage checks if there are more pages to fetch
func (p *Page[E]) HasNextPage() bool {
	return p.CurrentPage < p.LastPage
}

// NextPage returns the next page number, or an error if there are no more pages
func (p *Page[E]) NextPage() (int, error) {
	if !p.HasNextPage() {
		return 0, fmt.Errorf("no more pages available")
	}
	return p.CurrentPage + 1, nil
}

// Season is an anime airing season
type Season string

// Airing seasons, as used in airing/{season}/{year}
const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
)

// ParseSeason converts a case-insensitive season name
func ParseSeason(s string) (Season, error) {
	switch season := Season(strings.ToLower(strings.TrimSpace(s))); season {
	case SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter:
		return season, nil
	}
	return "", fmt.Errorf("invalid season %q (must be spring, summer, fall or winter)", s)
}

// WaifuListType selects which of a user's waifu lists to fetch
type WaifuListType string

const (
	// ListLikes holds the waifus a user liked
	ListLikes WaifuListType = "likes"
	// ListTrash holds the waifus a user trashed
	ListTrash WaifuListType = "trash"
	// ListCreated holds the waifus a user submitted
	ListCreated WaifuListType = "created"
)

// ParseWaifuListType converts a case-insensitive list type name
func ParseWaifuListType(s string) (WaifuListType, error) {
	switch lt := WaifuListType(strings.ToLower(strings.TrimSpace(s))); lt {
	case ListLikes, ListTrash, ListCreated:
		return lt, nil
	}
	return "", fmt.Errorf("invalid list type %q (must be likes, trash or created)", s)
}
