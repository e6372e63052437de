package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type GameStatus string

const (
	GameStatusDraft     GameStatus = "draft"
	GameStatusReady     GameStatus = "ready"
	GameStatusPublished GameStatus = "published"
)

const (
	MinWords  = 2
	MaxWords  = 5
	MaxOwners = 3

	// OwnerSeparator joins owner ids in OwnerIDs and words in WordsKey.
	OwnerSeparator = "|"
	WordsSeparator = "|"

	// ReadyPrefix marks a ready game whose publish month is not yet known.
	ReadyPrefix = "READY-"
)

// gameNamespace seeds content-addressed game ids.
var gameNamespace = uuid.MustParse("6f1d3c2a-8b7e-4a59-9c41-2d0e5b7f3a18")

type Game struct {
	ID           string                      `json:"id" gorm:"primaryKey"`
	Status       GameStatus                  `json:"status" gorm:"not null;default:'draft'"`
	OwnerIDs     string                      `json:"ownerIds" gorm:"not null;index"`
	WordsKey     string                      `json:"wordsKey" gorm:"not null;index"`
	Words        datatypes.JSONSlice[string] `json:"words" gorm:"type:jsonb;not null"`
	LooksNaughty bool                        `json:"looksNaughty" gorm:"not null;default:false"`
	PublishDate  *time.Time                  `json:"publishDate"`
	PublishMonth *string                     `json:"publishMonth" gorm:"index"`
	CreatedAt    time.Time                   `json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`
}

func (Game) TableName() string { return "games" }

// Owners splits OwnerIDs in join order.
func (g *Game) Owners() []string {
	if g.OwnerIDs == "" {
		return nil
	}
	return strings.Split(g.OwnerIDs, OwnerSeparator)
}

func (g *Game) HasOwner(ownerID string) bool {
	for _, id := range g.Owners() {
		if id == ownerID {
			return true
		}
	}
	return false
}

func (g *Game) IsFull() bool {
	return len(g.Owners()) >= MaxOwners
}

// Clone returns a copy that shares no mutable state with g.
func (g *Game) Clone() *Game {
	c := *g
	c.Words = append(datatypes.JSONSlice[string](nil), g.Words...)
	if g.PublishDate != nil {
		d := *g.PublishDate
		c.PublishDate = &d
	}
	if g.PublishMonth != nil {
		m := *g.PublishMonth
		c.PublishMonth = &m
	}
	return &c
}

// WordsKey returns the dedup key for already normalised words. The input
// slice is not reordered.
func WordsKey(words []string) string {
	sorted := append([]string(nil), words...)
	sort.Strings(sorted)
	return strings.Join(sorted, WordsSeparator)
}

// GameIDFor derives the id of the game owning wordsKey, so two creations of
// the same word set collide on the primary key.
func GameIDFor(wordsKey string) string {
	return uuid.NewSHA1(gameNamespace, []byte(wordsKey)).String()
}

// PublishMonthFor formats t as YYYY-MM in UTC.
func PublishMonthFor(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// ReadyMarker is the publish month placeholder for games awaiting a date.
func ReadyMarker(now time.Time) string {
	return ReadyPrefix + strconv.FormatInt(now.UnixMilli(), 10)
}

// GameUpdate is a partial set of game fields. Nil fields are left untouched.
// The words key is not patchable since it determines the game id.
type GameUpdate struct {
	Status       *GameStatus `json:"status,omitempty"`
	OwnerIDs     *string     `json:"ownerIds,omitempty"`
	Words        []string    `json:"words,omitempty"`
	LooksNaughty *bool       `json:"looksNaughty,omitempty"`
	PublishDate  *time.Time  `json:"publishDate,omitempty"`
	PublishMonth *string     `json:"publishMonth,omitempty"`
}

func (u GameUpdate) IsEmpty() bool {
	return u.Status == nil && u.OwnerIDs == nil && u.Words == nil &&
		u.LooksNaughty == nil && u.PublishDate == nil && u.PublishMonth == nil
}

// Columns maps the set fields to their column names.
func (u GameUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if u.Status != nil {
		cols["status"] = *u.Status
	}
	if u.OwnerIDs != nil {
		cols["owner_ids"] = *u.OwnerIDs
	}
	if u.Words != nil {
		cols["words"] = datatypes.JSONSlice[string](u.Words)
	}
	if u.LooksNaughty != nil {
		cols["looks_naughty"] = *u.LooksNaughty
	}
	if u.PublishDate != nil {
		cols["publish_date"] = u.PublishDate.UTC()
	}
	if u.PublishMonth != nil {
		cols["publish_month"] = *u.PublishMonth
	}
	return cols
}

// Apply writes the set fields onto g.
func (u GameUpdate) Apply(g *Game) {
	if u.Status != nil {
		g.Status = *u.Status
	}
	if u.OwnerIDs != nil {
		g.OwnerIDs = *u.OwnerIDs
	}
	if u.Words != nil {
		g.Words = append(datatypes.JSONSlice[string](nil), u.Words...)
	}
	if u.LooksNaughty != nil {
		g.LooksNaughty = *u.LooksNaughty
	}
	if u.PublishDate != nil {
		d := u.PublishDate.UTC()
		g.PublishDate = &d
	}
	if u.PublishMonth != nil {
		m := *u.PublishMonth
		g.PublishMonth = &m
	}
}
