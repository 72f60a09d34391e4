// Package events holds the container for Event records, written the way a
// generator would emit it: one column per field, an enum container for
// Outcome and a tag container for Status.
package events

import (
	"iter"
	"time"

	"github.com/ajitpratap0/columnar/pkg/columnar"
	"github.com/ajitpratap0/columnar/pkg/errors"
)

// Event is one processed message.
type Event struct {
	ID      uint64                   `json:"id"`
	Name    string                   `json:"name"`
	Tags    []string                 `json:"tags"`
	Score   columnar.Option[float64] `json:"score"`
	Outcome Outcome                  `json:"outcome"`
	Status  Status                   `json:"status"`
	Took    time.Duration            `json:"took"`
}

// TagList is the read view of Event.Tags.
type TagList = columnar.Slice[string, *columnar.Strings]

// EventRef is what Events.Get returns. Tags still point into the
// container.
type EventRef struct {
	ID      uint64
	Name    string
	Tags    TagList
	Score   columnar.Option[float64]
	Outcome Outcome
	Status  Status
	Took    time.Duration
}

// Owned copies r into an Event.
func (r EventRef) Owned() Event {
	return Event{
		ID:      r.ID,
		Name:    r.Name,
		Tags:    r.Tags.Collect(),
		Score:   r.Score,
		Outcome: r.Outcome,
		Status:  r.Status,
		Took:    r.Took,
	}
}

type (
	tagColumn   = columnar.Vecs[string, string, *columnar.Strings]
	scoreColumn = columnar.Options[float64, float64, *columnar.Primitives[float64]]
)

// Events stores Event records column by column.
type Events struct {
	IDs      *columnar.Primitives[uint64] `json:"ids"`
	Names    *columnar.Strings            `json:"names"`
	Tags     *tagColumn                   `json:"tags"`
	Scores   *scoreColumn                 `json:"scores"`
	Outcomes *Outcomes                    `json:"outcomes"`
	Statuses *Statuses                    `json:"statuses"`
	Took     *columnar.Durations          `json:"took"`
}

var _ columnar.Column[Event, EventRef, *Events] = (*Events)(nil)

// New returns an empty container.
func New() *Events {
	return &Events{
		IDs:      columnar.NewPrimitives[uint64](),
		Names:    columnar.NewStrings(),
		Tags:     columnar.NewVecs[string, string](columnar.NewStrings()),
		Scores:   columnar.NewOptions[float64, float64](columnar.NewPrimitives[float64]()),
		Outcomes: NewOutcomes(),
		Statuses: NewStatuses(),
		Took:     columnar.NewDurations(),
	}
}

func (e *Events) Len() int { return e.IDs.Len() }

func (e *Events) Clear() {
	e.IDs.Clear()
	e.Names.Clear()
	e.Tags.Clear()
	e.Scores.Clear()
	e.Outcomes.Clear()
	e.Statuses.Clear()
	e.Took.Clear()
}

func (e *Events) Push(item Event) {
	e.IDs.Push(item.ID)
	e.Names.Push(item.Name)
	e.Tags.Push(item.Tags)
	e.Scores.Push(item.Score)
	e.Outcomes.Push(item.Outcome)
	e.Statuses.Push(item.Status)
	e.Took.Push(item.Took)
}

func (e *Events) Get(index int) EventRef {
	if index < 0 || index >= e.Len() {
		errors.OutOfBounds(index, e.Len())
	}
	return EventRef{
		ID:      e.IDs.Get(index),
		Name:    e.Names.Get(index),
		Tags:    e.Tags.Get(index),
		Score:   e.Scores.Get(index),
		Outcome: e.Outcomes.Get(index),
		Status:  e.Statuses.Get(index),
		Took:    e.Took.Get(index),
	}
}

func (e *Events) columns() []interface {
	columnar.HeapSize
	columnar.AsBytes
} {
	return []interface {
		columnar.HeapSize
		columnar.AsBytes
	}{e.IDs, e.Names, e.Tags, e.Scores, e.Outcomes, e.Statuses, e.Took}
}

func (e *Events) HeapSize() (int, int) {
	var live, allocated int
	for _, c := range e.columns() {
		l, a := c.HeapSize()
		live += l
		allocated += a
	}
	return live, allocated
}

func (e *Events) Borrow() *Events {
	return &Events{
		IDs:      e.IDs.Borrow(),
		Names:    e.Names.Borrow(),
		Tags:     e.Tags.Borrow(),
		Scores:   e.Scores.Borrow(),
		Outcomes: e.Outcomes.Borrow(),
		Statuses: e.Statuses.Borrow(),
		Took:     e.Took.Borrow(),
	}
}

func (e *Events) ExtendFromSelf(other *Events, start, end int) {
	e.IDs.ExtendFromSelf(other.IDs, start, end)
	e.Names.ExtendFromSelf(other.Names, start, end)
	e.Tags.ExtendFromSelf(other.Tags, start, end)
	e.Scores.ExtendFromSelf(other.Scores, start, end)
	e.Outcomes.ExtendFromSelf(other.Outcomes, start, end)
	e.Statuses.ExtendFromSelf(other.Statuses, start, end)
	e.Took.ExtendFromSelf(other.Took, start, end)
}

// AsBytes emits the columns in field order.
func (e *Events) AsBytes(dst []columnar.Segment) []columnar.Segment {
	for _, c := range e.columns() {
		dst = c.AsBytes(dst)
	}
	return dst
}

func (e *Events) FromBytes(r *columnar.Reader) *Events {
	out := &Events{}
	out.IDs = e.IDs.FromBytes(r)
	out.Names = e.Names.FromBytes(r)
	out.Tags = e.Tags.FromBytes(r)
	out.Scores = e.Scores.FromBytes(r)
	out.Outcomes = e.Outcomes.FromBytes(r)
	out.Statuses = e.Statuses.FromBytes(r)
	out.Took = e.Took.FromBytes(r)
	return out
}

// All yields every record in order.
func (e *Events) All() iter.Seq2[int, EventRef] {
	return func(yield func(int, EventRef) bool) {
		for i := 0; i < e.Len(); i++ {
			if !yield(i, e.Get(i)) {
				return
			}
		}
	}
}
