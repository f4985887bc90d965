// internal/models/types.go
package models

import (
	"errors"
	"time"
)

type Era string

const (
	EraApostolic  Era = "Apostolic"
	EraPatristic  Era = "Patristic"
	EraMedieval   Era = "Medieval"
	EraModern     Era = "Modern"
	EraNewMartyrs Era = "NewMartyrs"
)

// Valid reports whether e is one of the known eras. The empty era is allowed.
func (e Era) Valid() bool {
	switch e {
	case "", EraApostolic, EraPatristic, EraMedieval, EraModern, EraNewMartyrs:
		return true
	}
	return false
}

type TestimonyStatus string

const (
	TestimonyPending  TestimonyStatus = "pending"
	TestimonyApproved TestimonyStatus = "approved"
	TestimonyRejected TestimonyStatus = "rejected"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("already exists")
)

type Martyr struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Title              string    `json:"title"`
	FeastDay           string    `json:"feastDay"`
	Year               string    `json:"year"`
	Era                Era       `json:"era"`
	IconURL            string    `json:"iconUrl"`
	Description        string    `json:"description"`
	Prayer             string    `json:"prayer"`
	Story              string    `json:"story"`
	IconDescription    string    `json:"iconDescription"`
	IntercessoryPrayer string    `json:"intercessoryPrayer"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type Testimony struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Date      time.Time       `json:"date"`
	Status    TestimonyStatus `json:"status"`
	Featured  bool            `json:"featured"`
	CreatedAt time.Time       `json:"createdAt"`
}

type TimelineCentury struct {
	ID      int64           `json:"id"`
	Century string          `json:"century"`
	Entries []TimelineEntry `json:"entries,omitempty"`
}

type TimelineEntry struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Year        string           `json:"year"`
	Description string           `json:"description"`
	CenturyID   int64            `json:"centuryId"`
	MartyrID    *int64           `json:"martyrId"`
	Century     *TimelineCentury `json:"century,omitempty"`
}

// TimelineMartyr and TimelineSection are the public, grouped view of the
// timeline served by GET /api/timeline.
type TimelineMartyr struct {
	Name        string `json:"name"`
	Year        string `json:"year"`
	Description string `json:"description"`
}

type TimelineSection struct {
	Century string           `json:"century"`
	Martyrs []TimelineMartyr `json:"martyrs"`
}
