package catalogfeed

type pageEnvelope[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	CurrentPage int  `json:"current_page"`
	HasMore     bool `json:"has_more"`
}

// TeamRecord is a club as the feed publishes it. Key is the stable slug used
// as the club id inside this service.
type TeamRecord struct {
	ID        int64  `json:"id"`
	Key       string `json:"key"`
	Name      string `json:"name"`
	ShortCode string `json:"short_code"`
}

// PlayerRecord keeps numeric attributes untyped since the feed sends them as
// numbers, numeric strings or null depending on the endpoint version.
type PlayerRecord struct {
	ID           int64  `json:"id"`
	Key          string `json:"key"`
	TeamKey      string `json:"team_key"`
	Name         string `json:"name"`
	DisplayName  string `json:"display_name"`
	Position     string `json:"position"`
	Price        any    `json:"price"`
	Form         any    `json:"form"`
	TotalPoints  int    `json:"total_points"`
	OwnershipPct any    `json:"selected_by_percent"`
	ImagePath    string `json:"image_path"`
	TransfersIn  int64  `json:"transfers_in"`
	TransfersOut int64  `json:"transfers_out"`
}
