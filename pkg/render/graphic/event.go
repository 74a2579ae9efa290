package graphic

import (
	"github.com/matzehuels/eventcards/pkg/errors"
	"github.com/matzehuels/eventcards/pkg/render/layout"
)

// Default field values used when the caller leaves a field blank.
const (
	DefaultTitle    = "Evento CASA"
	DefaultDate     = "Próximamente"
	DefaultLocation = "Iglesia San Andrés"
)

// DefaultScale is the output multiplier used when none is given.
const DefaultScale = 2

// Event holds the text shown on a graphic. Title may contain line breaks.
type Event struct {
	Title    string `json:"title" bson:"title"`
	Date     string `json:"date" bson:"date"`
	Time     string `json:"time" bson:"time"`
	Location string `json:"location" bson:"location"`
}

// WithDefaults returns a copy of e with blank date and location filled in.
func (e Event) WithDefaults() Event {
	if e.Date == "" {
		e.Date = DefaultDate
	}
	if e.Location == "" {
		e.Location = DefaultLocation
	}
	return e
}

// Field returns the value shown in a detail row.
func (e Event) Field(f layout.Field) string {
	switch f {
	case layout.FieldDate:
		return e.Date
	case layout.FieldTime:
		return e.Time
	case layout.FieldLocation:
		return e.Location
	}
	return ""
}

// Validate checks field lengths and characters. Only the title is required.
func (e Event) Validate() error {
	if err := errors.ValidateEventField("title", e.Title, errors.MaxTitleLength, true); err != nil {
		return err
	}
	for _, f := range []struct {
		name, value string
	}{
		{"date", e.Date},
		{"time", e.Time},
		{"location", e.Location},
	} {
		if err := errors.ValidateEventField(f.name, f.value, errors.MaxDetailLength, false); err != nil {
			return err
		}
	}
	return nil
}
