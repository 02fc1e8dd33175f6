package domain

import (
	"errors"
	"time"
)

// ErrDigestNotFound marks read-path misses: no digest for a date, or no
// completed digest yet. Callers map it to a "not available" response.
var ErrDigestNotFound = errors.New("digest not found")

// DigestStatus enumerates the generation lifecycle milestones.
type DigestStatus string

const (
	StatusDraft      DigestStatus = "DRAFT"
	StatusGenerating DigestStatus = "GENERATING"
	StatusCompleted  DigestStatus = "COMPLETED"
)

// Digest is the persisted daily document: AI summary, ranked raw payloads per
// category, and the rendered HTML. At most one exists per calendar date.
type Digest struct {
	ID          int64           `json:"id"`
	Date        time.Time       `json:"date"`
	Title       string          `json:"title"`
	Summary     string          `json:"summary"`
	HTMLContent string          `json:"htmlContent"`
	RawMovies   string          `json:"rawMovies,omitempty"`
	RawTV       string          `json:"rawTv,omitempty"`
	RawGames    string          `json:"rawGames,omitempty"`
	Sections    []DigestSection `json:"sections,omitempty"`
	Status      DigestStatus    `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// SectionType names a content category inside a digest.
type SectionType string

const (
	SectionGaming SectionType = "GAMING"
	SectionMovies SectionType = "MOVIES"
	SectionTV     SectionType = "TV"
)

// DigestSection is one category block of a digest. Sections are plain rows
// owned by their digest; the store replaces them wholesale on upsert.
type DigestSection struct {
	ID           int64       `json:"id"`
	DigestID     int64       `json:"digestId"`
	SectionType  SectionType `json:"sectionType"`
	Title        string      `json:"title"`
	RawData      string      `json:"rawData,omitempty"`
	DisplayOrder int         `json:"displayOrder"`
	ItemCount    int         `json:"itemCount"`
}

// Edition is a render-time content filter. The news summary is part of every
// edition; the filter only selects category sections.
type Edition string

const (
	EditionAll    Edition = "all"
	EditionGaming Edition = "gaming"
	EditionMovies Edition = "movies"
	EditionTV     Edition = "tv"
)

// ParseEdition maps a request string to an edition, defaulting to all.
func ParseEdition(value string) Edition {
	switch Edition(value) {
	case EditionGaming, EditionMovies, EditionTV:
		return Edition(value)
	default:
		return EditionAll
	}
}
