package books

import "time"

// Book is a persisted book row. Identity is enforced by the store on
// (title, author); a book may be shared by any number of lists.
type Book struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author,omitempty"`
	CoverURL        string `json:"cover_url,omitempty"`
	ISBN            string `json:"isbn,omitempty"`
	PublicationYear int    `json:"publication_year,omitempty"`
	Publisher       string `json:"publisher,omitempty"`
	Genre           string `json:"genre,omitempty"`
	Description     string `json:"description,omitempty"`

	// Secondary metadata, commonly only available from the rich catalog.
	AverageRating  float64  `json:"average_rating,omitempty"`
	RatingsCount   int      `json:"ratings_count,omitempty"`
	PageCount      int      `json:"page_count,omitempty"`
	Language       string   `json:"language,omitempty"`
	Categories     []string `json:"categories,omitempty"`
	MaturityRating string   `json:"maturity_rating,omitempty"`
}

// RawMention is a single physical book detected in an image, before any
// catalog enrichment. Ephemeral; never persisted as-is.
type RawMention struct {
	Title      string  `json:"title"`
	Author     string  `json:"author,omitempty"`
	Publisher  string  `json:"publisher,omitempty"`
	Series     string  `json:"series,omitempty"`
	ISBN       string  `json:"isbn,omitempty"`
	Position   string  `json:"position,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Usable reports whether a mention carries enough identifying data to be
// worth enriching: a title plus at least one of author, publisher, or a
// (pre-validated) ISBN. Title-only mentions are unreliable.
func (m RawMention) Usable() bool {
	if m.Title == "" {
		return false
	}
	return m.Author != "" || m.Publisher != "" || m.ISBN != ""
}

// ChangeAction describes a proposed mini-library mutation.
type ChangeAction string

const (
	ChangeAdd    ChangeAction = "add"
	ChangeRemove ChangeAction = "remove"
)

// BookChange is one proposed delta from the mini-library change detector.
// Changes are proposals only; applying them requires caller confirmation.
type BookChange struct {
	Book       Book         `json:"book"`
	Action     ChangeAction `json:"action"`
	Confidence float64      `json:"confidence"`
}

// Location carries the geographic fields attached to a list. Exact
// coordinates are private; the fuzzed public pair is what non-minilibrary
// viewers see.
type Location struct {
	ExactLatitude   float64 `json:"exact_latitude,omitempty"`
	ExactLongitude  float64 `json:"exact_longitude,omitempty"`
	PublicLatitude  float64 `json:"public_latitude,omitempty"`
	PublicLongitude float64 `json:"public_longitude,omitempty"`
	Name            string  `json:"location_name,omitempty"`
	City            string  `json:"city,omitempty"`
	Country         string  `json:"country,omitempty"`
}

// List is a persisted, shareable book list.
type List struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	ShareURL  string      `json:"share_url"`
	Purpose   ListPurpose `json:"purpose"`
	OwnerID   string      `json:"-"`
	Location  Location    `json:"location"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Membership is the ordered join row between a list and a book. Positions
// within a list are kept gap-free (0..n-1) by the store.
type Membership struct {
	ListID   string
	BookID   string
	Position int
}

// DefaultListName is used when a list is created without an explicit name.
const DefaultListName = "My Book List"
