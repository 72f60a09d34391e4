package events

import (
	"fmt"
	"strings"

	"github.com/ajitpratap0/columnar/pkg/columnar"
	"github.com/ajitpratap0/columnar/pkg/errors"
)

// Status is the health of the source that produced an event.
type Status uint8

const (
	StatusHealthy Status = iota
	StatusDegraded
	StatusFailed
)

var statusNames = []string{"healthy", "degraded", "failed"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// MarshalText encodes the status name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses a status name.
func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if strings.EqualFold(name, string(text)) {
			*s = Status(i)
			return nil
		}
	}
	return errors.New(errors.ErrorTypeValidation, "unknown status").WithDetail("status", string(text))
}

// Statuses stores a fieldless enum as one tag byte per value.
type Statuses struct {
	Tags *columnar.Primitives[uint8] `json:"tags"`
}

// NewStatuses returns an empty container.
func NewStatuses() *Statuses { return &Statuses{Tags: columnar.NewPrimitives[uint8]()} }

func (s *Statuses) Len() int             { return s.Tags.Len() }
func (s *Statuses) Clear()               { s.Tags.Clear() }
func (s *Statuses) Push(item Status)     { s.Tags.Push(uint8(item)) }
func (s *Statuses) HeapSize() (int, int) { return s.Tags.HeapSize() }
func (s *Statuses) Borrow() *Statuses    { return &Statuses{Tags: s.Tags.Borrow()} }

func (s *Statuses) Get(index int) Status {
	tag := s.Tags.Get(index)
	if int(tag) >= len(statusNames) {
		errors.Panic(errors.ErrorTypeDecode, "malformed enum discriminant", "index", index, "discriminant", tag)
	}
	return Status(tag)
}

func (s *Statuses) ExtendFromSelf(other *Statuses, start, end int) {
	s.Tags.ExtendFromSelf(other.Tags, start, end)
}

func (s *Statuses) AsBytes(dst []columnar.Segment) []columnar.Segment { return s.Tags.AsBytes(dst) }

func (s *Statuses) FromBytes(r *columnar.Reader) *Statuses {
	return &Statuses{Tags: s.Tags.FromBytes(r)}
}
