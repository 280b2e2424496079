// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tkfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/valyala/fastjson"
)

// The JSON form of a Measurement is
//
//	{
//	  "id": "M1",
//	  "columnNames": ["case", "Suite"],
//	  "records": [
//	    {
//	      "attributes": {"case": "Y1", "Suite": "TS2"},
//	      "startAt": "2021-01-02T15:04:05.123Z",
//	      "endAt": "2021-01-02T15:29:22.123Z",
//	      "duration": 1517000,
//	      "size": 736042
//	    }
//	  ]
//	}
//
// Attributes keep their order. "duration" is in milliseconds and is
// omitted when undefined, as are unset times and sizes.

// JSONValue builds the JSON form of m in a.
func (m *Measurement) JSONValue(a *fastjson.Arena) *fastjson.Value {
	o := a.NewObject()
	o.Set("id", a.NewString(m.id))
	cols := a.NewArray()
	for i, c := range m.columns {
		cols.SetArrayItem(i, a.NewString(c))
	}
	o.Set("columnNames", cols)
	recs := a.NewArray()
	for i, r := range m.records {
		recs.SetArrayItem(i, r.JSONValue(a))
	}
	o.Set("records", recs)
	return o
}

// JSONValue builds the JSON form of r in a.
func (r *Record) JSONValue(a *fastjson.Arena) *fastjson.Value {
	o := a.NewObject()
	attrs := a.NewObject()
	for _, at := range r.attrs {
		attrs.Set(at.Key, a.NewString(at.Value))
	}
	o.Set("attributes", attrs)
	if !r.startAt.IsZero() {
		o.Set("startAt", a.NewString(r.startAt.Format(time.RFC3339Nano)))
	}
	if !r.endAt.IsZero() {
		o.Set("endAt", a.NewString(r.endAt.Format(time.RFC3339Nano)))
	}
	if ms, err := r.DurationMillis(); err == nil {
		o.Set("duration", a.NewNumberString(strconv.FormatInt(ms, 10)))
	}
	if r.hasSize {
		o.Set("size", a.NewNumberString(strconv.FormatInt(r.size, 10)))
	}
	return o
}

// MarshalJSON implements json.Marshaler.
func (m *Measurement) MarshalJSON() ([]byte, error) {
	var a fastjson.Arena
	return m.JSONValue(&a).MarshalTo(nil), nil
}

// String returns the compact JSON form of m.
func (m *Measurement) String() string {
	b, _ := m.MarshalJSON()
	return string(b)
}

// PrettyJSON returns the JSON form of m indented by two spaces.
func (m *Measurement) PrettyJSON() string {
	b, _ := m.MarshalJSON()
	var buf bytes.Buffer
	if err := json.Indent(&buf, b, "", "  "); err != nil {
		// MarshalJSON always produces valid JSON.
		panic(err)
	}
	return buf.String()
}

// UnmarshalJSON implements json.Unmarshaler. It replaces the contents
// of m.
func (m *Measurement) UnmarshalJSON(data []byte) error {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return fmt.Errorf("parsing measurement: %w", err)
	}
	nm, err := measurementFromJSON(v)
	if err != nil {
		return err
	}
	*m = *nm
	return nil
}

func measurementFromJSON(v *fastjson.Value) (*Measurement, error) {
	id := string(v.GetStringBytes("id"))
	var cols []string
	for _, c := range v.GetArray("columnNames") {
		s, err := c.StringBytes()
		if err != nil {
			return nil, fmt.Errorf("measurement %s: columnNames: %w", id, err)
		}
		cols = append(cols, string(s))
	}
	m, err := NewMeasurement(id, cols)
	if err != nil {
		return nil, err
	}
	for i, rv := range v.GetArray("records") {
		r, err := recordFromJSON(rv)
		if err != nil {
			return nil, fmt.Errorf("measurement %s: record %d: %w", id, i, err)
		}
		m.Add(r)
	}
	return m, nil
}

func recordFromJSON(v *fastjson.Value) (*Record, error) {
	var b RecordBuilder
	var err error
	if ao := v.Get("attributes"); ao != nil {
		o, oerr := ao.Object()
		if oerr != nil {
			return nil, fmt.Errorf("attributes: %w", oerr)
		}
		o.Visit(func(key []byte, val *fastjson.Value) {
			s, serr := val.StringBytes()
			if serr != nil && err == nil {
				err = fmt.Errorf("attribute %s: %w", key, serr)
			}
			b.Attr(string(key), string(s))
		})
		if err != nil {
			return nil, err
		}
	}
	r := b.Build()

	parseTime := func(key string) (time.Time, error) {
		s := v.GetStringBytes(key)
		if s == nil {
			return time.Time{}, nil
		}
		t, err := time.Parse(time.RFC3339Nano, string(s))
		if err != nil {
			return time.Time{}, fmt.Errorf("%s: %w", key, err)
		}
		return t, nil
	}
	start, err := parseTime("startAt")
	if err != nil {
		return nil, err
	}
	end, err := parseTime("endAt")
	if err != nil {
		return nil, err
	}
	r.SetStartAt(start)
	r.SetEndAt(end)

	// An assigned duration overrides the times, so keep it unless the
	// times already yield it.
	if dv := v.Get("duration"); dv != nil {
		ms, err := dv.Int64()
		if err != nil {
			return nil, fmt.Errorf("duration: %w", err)
		}
		if got, err := r.DurationMillis(); err != nil || got != ms {
			r.SetDuration(time.Duration(ms) * time.Millisecond)
		}
	}
	if sv := v.Get("size"); sv != nil {
		n, err := sv.Int64()
		if err != nil {
			return nil, fmt.Errorf("size: %w", err)
		}
		r.SetSize(n)
	}
	return r, nil
}
