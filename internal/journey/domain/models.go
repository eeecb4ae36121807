// Package domain describes a scripted sequence of card loads and rides.
package domain

import (
	"time"

	"github.com/smallbiznis/transitfare/internal/ticket"
)

// Journey is the decoded journey file.
type Journey struct {
	Cards  []CardSpec `mapstructure:"cards"`
	Events []Event    `mapstructure:"events"`
}

// CardSpec names a card issued at the start of the replay.
type CardSpec struct {
	Name string `mapstructure:"name"`
	Kind string `mapstructure:"kind"`
}

// Event is one step of the journey. Exactly one of Load and Ride is set.
// At moves the clock to an absolute local time ("2006-01-02 15:04:05" or
// RFC 3339); Advance moves it forward relative to the previous event.
type Event struct {
	At      string        `mapstructure:"at"`
	Advance time.Duration `mapstructure:"advance"`
	Card    string        `mapstructure:"card"`
	Load    int64         `mapstructure:"load"`
	Ride    string        `mapstructure:"ride"`
}

type Action string

const (
	ActionLoad Action = "load"
	ActionRide Action = "ride"
)

// Entry is the outcome of one event. Err is set when the card refused the
// load or the ride; Ticket is only set for accepted rides.
type Entry struct {
	At     time.Time
	Card   string
	Action Action
	Route  string
	Amount int64
	Ticket *ticket.Ticket
	Err    error
}

func (e Entry) Rejected() bool { return e.Err != nil }

type Report struct {
	Entries []Entry
}

func (r Report) Tickets() []ticket.Ticket {
	var out []ticket.Ticket
	for _, e := range r.Entries {
		if e.Ticket != nil {
			out = append(out, *e.Ticket)
		}
	}
	return out
}

func (r Report) Rejections() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Rejected() {
			out = append(out, e)
		}
	}
	return out
}
