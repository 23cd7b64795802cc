package catalog

// Taxonomy is a category or country reference on a catalog item.
type Taxonomy struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TMDB is the cross-reference block attached to catalog items.
type TMDB struct {
	Type        string  `json:"type"`
	ID          string  `json:"id"`
	Season      *int    `json:"season"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
}

// Item is a listing entry. PosterURL and ThumbURL are absolute once the
// client has resolved them.
type Item struct {
	ID             string     `json:"_id"`
	Name           string     `json:"name"`
	Slug           string     `json:"slug"`
	OriginName     string     `json:"origin_name"`
	Type           string     `json:"type,omitempty"`
	PosterURL      string     `json:"poster_url"`
	ThumbURL       string     `json:"thumb_url"`
	Year           int        `json:"year"`
	Time           string     `json:"time,omitempty"`
	EpisodeCurrent string     `json:"episode_current,omitempty"`
	Quality        string     `json:"quality,omitempty"`
	Lang           string     `json:"lang,omitempty"`
	SubDocQuyen    bool       `json:"sub_docquyen,omitempty"`
	ChieuRap       bool       `json:"chieurap,omitempty"`
	TMDB           TMDB       `json:"tmdb"`
	Category       []Taxonomy `json:"category,omitempty"`
	Country        []Taxonomy `json:"country,omitempty"`
}

// Episode is a single playable episode.
type Episode struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Filename  string `json:"filename"`
	LinkEmbed string `json:"link_embed"`
	LinkM3U8  string `json:"link_m3u8"`
}

// EpisodeServer groups the episodes hosted by one streaming server.
type EpisodeServer struct {
	ServerName string    `json:"server_name"`
	ServerData []Episode `json:"server_data"`
}

// Movie is the detail payload for a single title.
type Movie struct {
	Item
	Content      string   `json:"content"`
	Status       string   `json:"status"`
	TrailerURL   string   `json:"trailer_url"`
	EpisodeTotal string   `json:"episode_total"`
	IsCopyright  bool     `json:"is_copyright"`
	Notify       string   `json:"notify,omitempty"`
	Showtimes    string   `json:"showtimes,omitempty"`
	View         int      `json:"view"`
	Actor        []string `json:"actor"`
	Director     []string `json:"director"`
}

// MovieDetail is a movie with its episode lists.
type MovieDetail struct {
	Movie    Movie           `json:"movie"`
	Episodes []EpisodeServer `json:"episodes"`
}

// SectionRequest asks for one listing, e.g. a home page rail.
type SectionRequest struct {
	Key      string            `json:"key"`
	TypeList string            `json:"type_list"`
	Params   map[string]string `json:"params,omitempty"`
}

// Page is one page of listing results.
type Page struct {
	Items      []Item `json:"items"`
	TotalPages int    `json:"totalPages"`
}

// SectionResponse is a listing result. A failed fetch carries Error and no
// items.
type SectionResponse struct {
	Key        string `json:"key"`
	Items      []Item `json:"items"`
	TotalPages int    `json:"totalPages,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BatchedResponse holds section results in request order.
type BatchedResponse struct {
	Sections []SectionResponse `json:"sections"`
}

type listEnvelope struct {
	Status any    `json:"status"`
	Msg    string `json:"msg"`
	Data   struct {
		Items  []Item `json:"items"`
		Params struct {
			Pagination struct {
				TotalItems  int `json:"totalItems"`
				CurrentPage int `json:"currentPage"`
				TotalPages  int `json:"totalPages"`
			} `json:"pagination"`
		} `json:"params"`
	} `json:"data"`
}

type detailEnvelope struct {
	Status   bool            `json:"status"`
	Msg      string          `json:"msg"`
	Movie    Movie           `json:"movie"`
	Episodes []EpisodeServer `json:"episodes"`
}
