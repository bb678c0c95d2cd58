package value

import (
	"bytes"
	"math"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/docmap/codec"
)

// MarshalJSON renders the document as plain JSON. Map keys keep their
// order, timestamps use RFC3339, bytes base64, references their path and
// geopoints a {"latitude","longitude"} object. Non-finite doubles and the
// server-timestamp sentinel have no JSON number form and are written as
// strings.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (m *Map) MarshalJSON() ([]byte, error) { return MapOf(m).MarshalJSON() }

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindArray:
		items, _ := v.AsArray()
		buf.WriteByte('[')
		for i, it := range items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := it.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case KindMap:
		m, _ := v.AsMap()
		buf.WriteByte('{')
		i := 0
		for k, it := range m.All() {
			if i > 0 {
				buf.WriteByte(',')
			}
			i++
			kb, err := gojson.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := it.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	}
	b, err := gojson.Marshal(v.scalarJSON())
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

func (v Value) scalarJSON() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindDouble:
		f, _ := v.AsDouble()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return codec.FormatDouble(f)
		}
		return f
	case KindDecimal:
		d, _ := v.AsDecimal()
		return gojson.Number(d)
	case KindTimestamp:
		t, _ := v.AsTimestamp()
		return codec.FormatTime(t)
	case KindGeoPoint:
		g, _ := v.AsGeoPoint()
		return map[string]float64{"latitude": g.Latitude, "longitude": g.Longitude}
	case KindReference:
		r, _ := v.AsReference()
		return r.Path()
	case KindVector:
		x, _ := v.AsVector()
		return []float64(x)
	case KindServerTimestamp:
		return "REQUEST_TIME"
	default:
		return v.v
	}
}
