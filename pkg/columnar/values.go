package columnar

import (
	"bytes"

	"github.com/goccy/go-json"

	"github.com/ajitpratap0/columnar/pkg/errors"
)

// Option is a value that may be absent.
type Option[T any] struct {
	Value T
	Valid bool
}

// Some returns a present Option.
func Some[T any](v T) Option[T] { return Option[T]{Value: v, Valid: true} }

// None returns an absent Option.
func None[T any]() Option[T] { return Option[T]{} }

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) { return o.Value, o.Valid }

// MarshalJSON writes the value, or null when absent.
func (o Option[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *Option[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Option[T]{}
		return nil
	}
	o.Valid = true
	return json.Unmarshal(data, &o.Value)
}

// Result holds either an Ok value or an Err value.
type Result[S, E any] struct {
	Ok   S
	Err  E
	IsOk bool
}

// Ok returns a successful Result.
func Ok[S, E any](v S) Result[S, E] { return Result[S, E]{Ok: v, IsOk: true} }

// Err returns a failed Result.
func Err[S, E any](e E) Result[S, E] { return Result[S, E]{Err: e} }

type resultJSON[S, E any] struct {
	Ok  *S `json:"ok,omitempty"`
	Err *E `json:"err,omitempty"`
}

// MarshalJSON writes {"ok": v} or {"err": e}.
func (r Result[S, E]) MarshalJSON() ([]byte, error) {
	if r.IsOk {
		return json.Marshal(resultJSON[S, E]{Ok: &r.Ok})
	}
	return json.Marshal(resultJSON[S, E]{Err: &r.Err})
}

// UnmarshalJSON reads the variant from whichever of "ok" and "err" is
// present, so {"ok": null} is Ok holding the zero value.
func (r *Result[S, E]) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	ok, hasOk := fields["ok"]
	e, hasErr := fields["err"]
	switch {
	case hasOk && hasErr:
		return errors.New(errors.ErrorTypeDecode, "result holds both ok and err")
	case hasOk:
		*r = Result[S, E]{IsOk: true}
		return json.Unmarshal(ok, &r.Ok)
	case hasErr:
		*r = Result[S, E]{}
		return json.Unmarshal(e, &r.Err)
	default:
		return errors.New(errors.ErrorTypeDecode, "result holds neither ok nor err")
	}
}

// Pair is a two field product.
type Pair[A, B any] struct {
	First  A `json:"first"`
	Second B `json:"second"`
}

// Triple is a three field product.
type Triple[A, B, C any] struct {
	First  A `json:"first"`
	Second B `json:"second"`
	Third  C `json:"third"`
}
