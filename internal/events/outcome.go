package events

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/ajitpratap0/columnar/pkg/columnar"
	"github.com/ajitpratap0/columnar/pkg/errors"
)

// OutcomeKind is the discriminant of Outcome.
type OutcomeKind uint8

const (
	OutcomeAccepted OutcomeKind = iota
	OutcomeRejected
	OutcomePending
)

var outcomeNames = []string{"accepted", "rejected", "pending"}

func (k OutcomeKind) String() string {
	if int(k) < len(outcomeNames) {
		return outcomeNames[k]
	}
	return fmt.Sprintf("outcome(%d)", uint8(k))
}

// Outcome is one of Accepted{Code}, Rejected{Reason} or Pending. Only the
// fields of the active kind are meaningful.
type Outcome struct {
	Kind   OutcomeKind
	Code   uint32
	Reason string
}

// Accepted returns an accepted outcome with a status code.
func Accepted(code uint32) Outcome { return Outcome{Kind: OutcomeAccepted, Code: code} }

// Rejected returns a rejected outcome with a reason.
func Rejected(reason string) Outcome { return Outcome{Kind: OutcomeRejected, Reason: reason} }

// Pending returns a pending outcome.
func Pending() Outcome { return Outcome{Kind: OutcomePending} }

type outcomeJSON struct {
	Kind   string  `json:"kind"`
	Code   *uint32 `json:"code,omitempty"`
	Reason *string `json:"reason,omitempty"`
}

// MarshalJSON writes {"kind": ..} plus the field of the active kind.
func (o Outcome) MarshalJSON() ([]byte, error) {
	out := outcomeJSON{Kind: o.Kind.String()}
	switch o.Kind {
	case OutcomeAccepted:
		out.Code = &o.Code
	case OutcomeRejected:
		out.Reason = &o.Reason
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var in outcomeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Kind {
	case "accepted":
		*o = Accepted(0)
		if in.Code != nil {
			o.Code = *in.Code
		}
	case "rejected":
		*o = Rejected("")
		if in.Reason != nil {
			o.Reason = *in.Reason
		}
	case "pending":
		*o = Pending()
	default:
		return errors.New(errors.ErrorTypeValidation, "unknown outcome kind").WithDetail("kind", in.Kind)
	}
	return nil
}

// Outcomes stores Outcome values with one column per kind. Variant holds
// the kind of each value and Offset its position within that kind's
// column.
type Outcomes struct {
	Accepted *columnar.Primitives[uint32] `json:"accepted"`
	Rejected *columnar.Strings            `json:"rejected"`
	Pending  *columnar.Empties            `json:"pending"`
	Variant  *columnar.Primitives[uint8]  `json:"variant"`
	Offset   *columnar.Primitives[uint64] `json:"offset"`
}

// NewOutcomes returns an empty container.
func NewOutcomes() *Outcomes {
	return &Outcomes{
		Accepted: columnar.NewPrimitives[uint32](),
		Rejected: columnar.NewStrings(),
		Pending:  columnar.NewEmpties(),
		Variant:  columnar.NewPrimitives[uint8](),
		Offset:   columnar.NewPrimitives[uint64](),
	}
}

func (o *Outcomes) Len() int { return o.Variant.Len() }

func (o *Outcomes) Clear() {
	o.Accepted.Clear()
	o.Rejected.Clear()
	o.Pending.Clear()
	o.Variant.Clear()
	o.Offset.Clear()
}

func (o *Outcomes) Push(item Outcome) {
	switch item.Kind {
	case OutcomeAccepted:
		o.Offset.Push(uint64(o.Accepted.Len()))
		o.Accepted.Push(item.Code)
	case OutcomeRejected:
		o.Offset.Push(uint64(o.Rejected.Len()))
		o.Rejected.Push(item.Reason)
	case OutcomePending:
		o.Offset.Push(uint64(o.Pending.Len()))
		o.Pending.Push(struct{}{})
	default:
		errors.Panic(errors.ErrorTypeValidation, "unknown outcome kind", "kind", item.Kind)
	}
	o.Variant.Push(uint8(item.Kind))
}

// Get panics with ErrorTypeDecode when the stored discriminant is not a
// known kind, which only happens for corrupted encoded input.
func (o *Outcomes) Get(index int) Outcome {
	kind := OutcomeKind(o.Variant.Get(index))
	offset := int(o.Offset.Get(index))
	switch kind {
	case OutcomeAccepted:
		return Accepted(o.Accepted.Get(offset))
	case OutcomeRejected:
		return Rejected(o.Rejected.Get(offset))
	case OutcomePending:
		o.Pending.Get(offset)
		return Pending()
	default:
		errors.Panic(errors.ErrorTypeDecode, "malformed enum discriminant", "index", index, "discriminant", uint8(kind))
		return Outcome{}
	}
}

func (o *Outcomes) HeapSize() (int, int) {
	var live, allocated int
	for _, c := range []columnar.HeapSize{o.Accepted, o.Rejected, o.Pending, o.Variant, o.Offset} {
		l, a := c.HeapSize()
		live += l
		allocated += a
	}
	return live, allocated
}

func (o *Outcomes) Borrow() *Outcomes {
	return &Outcomes{
		Accepted: o.Accepted.Borrow(),
		Rejected: o.Rejected.Borrow(),
		Pending:  o.Pending.Borrow(),
		Variant:  o.Variant.Borrow(),
		Offset:   o.Offset.Borrow(),
	}
}

func (o *Outcomes) ExtendFromSelf(other *Outcomes, start, end int) {
	for i := start; i < end; i++ {
		o.Push(other.Get(i))
	}
}

func (o *Outcomes) AsBytes(dst []columnar.Segment) []columnar.Segment {
	dst = o.Accepted.AsBytes(dst)
	dst = o.Rejected.AsBytes(dst)
	dst = o.Pending.AsBytes(dst)
	dst = o.Variant.AsBytes(dst)
	return o.Offset.AsBytes(dst)
}

func (o *Outcomes) FromBytes(r *columnar.Reader) *Outcomes {
	out := &Outcomes{}
	out.Accepted = o.Accepted.FromBytes(r)
	out.Rejected = o.Rejected.FromBytes(r)
	out.Pending = o.Pending.FromBytes(r)
	out.Variant = o.Variant.FromBytes(r)
	out.Offset = o.Offset.FromBytes(r)
	return out
}
