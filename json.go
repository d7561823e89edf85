package spl

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var jsonConfig = jsoniter.ConfigCompatibleWithStandardLibrary

func (v Value) MarshalJSON() ([]byte, error) {
	stream := jsonConfig.BorrowStream(nil)
	defer jsonConfig.ReturnStream(stream)
	writeValue(stream, v)
	if stream.Error != nil {
		return nil, stream.Error
	}
	return append([]byte(nil), stream.Buffer()...), nil
}

func (r *Record) MarshalJSON() ([]byte, error) {
	return NewRecordValue(r).MarshalJSON()
}

func writeValue(stream *jsoniter.Stream, v Value) {
	switch v.kind {
	case KindMissing, KindNull:
		stream.WriteNil()
	case KindBool:
		stream.WriteBool(v.b)
	case KindInt:
		stream.WriteRaw(v.i.String())
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			stream.WriteString(FormatFloat(v.f))
			return
		}
		s := FormatFloat(v.f)
		if !strings.ContainsAny(s, ".eE") {
			// Keep floats distinguishable from integers on the way back in.
			s += ".0"
		}
		stream.WriteRaw(s)
	case KindString:
		stream.WriteString(v.s)
	case KindArray:
		stream.WriteArrayStart()
		for k, elem := range v.a {
			if k > 0 {
				stream.WriteMore()
			}
			writeValue(stream, elem)
		}
		stream.WriteArrayEnd()
	case KindRecord:
		stream.WriteObjectStart()
		for k, f := range v.r.Fields() {
			if k > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(f.Name)
			writeValue(stream, f.Value)
		}
		stream.WriteObjectEnd()
	}
}

func (v *Value) UnmarshalJSON(b []byte) error {
	val, err := ParseJSON(b)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

func (r *Record) UnmarshalJSON(b []byte) error {
	rec, err := ParseRecordJSON(b)
	if err != nil {
		return err
	}
	*r = *rec
	return nil
}

// ParseJSON decodes a single JSON value.  Numbers without a fraction or
// exponent become arbitrary-precision integers and all other numbers become
// floats.  Object key order is preserved.
func ParseJSON(b []byte) (Value, error) {
	iter := jsonConfig.BorrowIterator(b)
	defer jsonConfig.ReturnIterator(iter)
	val := readValue(iter)
	if iter.Error != nil && iter.Error != io.EOF {
		return Missing, fmt.Errorf("invalid JSON: %w", iter.Error)
	}
	if val.IsMissing() {
		return Missing, errors.New("invalid JSON: no value")
	}
	// Anything other than EOF after the value is trailing garbage.
	iter.WhatIsNext()
	if iter.Error == nil {
		return Missing, errors.New("invalid JSON: trailing data after value")
	}
	return val, nil
}

// ParseRecordJSON decodes a JSON object into a Record.
func ParseRecordJSON(b []byte) (*Record, error) {
	val, err := ParseJSON(b)
	if err != nil {
		return nil, err
	}
	if val.kind != KindRecord {
		return nil, fmt.Errorf("JSON value is not an object: %s", val.kind)
	}
	return val.r, nil
}

func readValue(iter *jsoniter.Iterator) Value {
	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
		return Null
	case jsoniter.BoolValue:
		return NewBool(iter.ReadBool())
	case jsoniter.NumberValue:
		return parseNumber(iter, string(iter.ReadNumber()))
	case jsoniter.StringValue:
		return NewString(iter.ReadString())
	case jsoniter.ArrayValue:
		vals := []Value{}
		iter.ReadArrayCB(func(iter *jsoniter.Iterator) bool {
			vals = append(vals, readValue(iter))
			return iter.Error == nil
		})
		return NewArray(vals)
	case jsoniter.ObjectValue:
		rec := &Record{}
		iter.ReadObjectCB(func(iter *jsoniter.Iterator, name string) bool {
			val := readValue(iter)
			if val.IsMissing() {
				val = Null
			}
			rec.Put(name, val)
			return iter.Error == nil
		})
		return NewRecordValue(rec)
	}
	iter.ReportError("readValue", "unexpected JSON token")
	return Missing
}

func parseNumber(iter *jsoniter.Iterator, s string) Value {
	if v, ok := ParseNumber(s); ok {
		return v
	}
	iter.ReportError("readValue", "bad number "+s)
	return Missing
}

// ParseNumber parses s as an integer if it has no fraction or exponent and
// as a float otherwise.
func ParseNumber(s string) (Value, bool) {
	if !strings.ContainsAny(s, ".eE") {
		if i, ok := new(big.Int).SetString(s, 10); ok {
			return NewBigInt(i), true
		}
		return Missing, false
	}
	f, ok := new(big.Float).SetString(s)
	if !ok {
		return Missing, false
	}
	v, _ := f.Float64()
	return NewFloat(v), true
}

// Decoder reads a stream of whitespace-separated JSON values.
type Decoder struct {
	iter *jsoniter.Iterator
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{iter: jsoniter.Parse(jsonConfig, r, 64*1024)}
}

// Decode returns the next value in the stream or Missing at end of stream.
func (d *Decoder) Decode() (Value, error) {
	if d.iter.WhatIsNext() == jsoniter.InvalidValue {
		switch d.iter.Error {
		case io.EOF:
			return Missing, nil
		case nil:
			return Missing, errors.New("invalid JSON: unexpected character")
		default:
			return Missing, fmt.Errorf("invalid JSON: %w", d.iter.Error)
		}
	}
	val := readValue(d.iter)
	if d.iter.Error != nil && d.iter.Error != io.EOF {
		return Missing, fmt.Errorf("invalid JSON: %w", d.iter.Error)
	}
	return val, nil
}
