// Package media implements the catalog record store: validation, identifier
// assignment and the query/write operations over a persisted collection.
package media

import (
	"regexp"
	"strings"
)

// Categories accepted for a record, in display order.
var Categories = []string{"Book", "Film", "Magazine"}

var datePattern = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)

// Record is a single catalog entry.
type Record struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	PublicationDate string `json:"publication_date"`
	Author          string `json:"author"`
	Category        string `json:"category"`
}

// Collection maps record id to record. It is the unit the backing store
// loads and saves.
type Collection map[string]Record

// NewRecord holds caller-supplied fields for a create. It never carries an id.
type NewRecord struct {
	Name            string `json:"name"`
	PublicationDate string `json:"publication_date"`
	Author          string `json:"author"`
	Category        string `json:"category"`
}

// Validate checks n against the create rules in order and returns the first
// violation as a *ValidationError.
func Validate(n NewRecord) error {
	name := strings.TrimSpace(n.Name)
	date := strings.TrimSpace(n.PublicationDate)
	author := strings.TrimSpace(n.Author)
	category := strings.TrimSpace(n.Category)

	switch {
	case name == "":
		return &ValidationError{Reason: "name required"}
	case date == "":
		return &ValidationError{Reason: "date required"}
	case author == "":
		return &ValidationError{Reason: "author required"}
	case category == "":
		return &ValidationError{Reason: "category required"}
	case !datePattern.MatchString(date):
		return &ValidationError{Reason: "bad date format"}
	case !validCategory(category):
		return &ValidationError{Reason: "bad category"}
	}
	return nil
}

func validCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// trimmed returns n with every field stripped of surrounding whitespace.
func (n NewRecord) trimmed() NewRecord {
	return NewRecord{
		Name:            strings.TrimSpace(n.Name),
		PublicationDate: strings.TrimSpace(n.PublicationDate),
		Author:          strings.TrimSpace(n.Author),
		Category:        strings.TrimSpace(n.Category),
	}
}
