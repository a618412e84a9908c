// Package codec converts boundaries to and from the persisted record format:
//
//	{"points":[{"point_number":1,"latitude":..,"longitude":..}, ...]}
//
// Decoding is positional. point_number is written for humans and ignored on read.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/samirrijal/fieldmap/internal/core/domain"
)

// Encode maps each point to a record entry numbered from 1, in order.
func Encode(points []domain.GeoPoint) domain.Record {
	rec := domain.Record{Points: make([]domain.RecordPoint, len(points))}
	for i, p := range points {
		rec.Points[i] = domain.RecordPoint{
			PointNumber: i + 1,
			Latitude:    p.Lat,
			Longitude:   p.Lon,
		}
	}
	return rec
}

// Decode returns the record's points in array order.
func Decode(rec domain.Record) []domain.GeoPoint {
	out := make([]domain.GeoPoint, len(rec.Points))
	for i, rp := range rec.Points {
		out[i] = domain.GeoPoint{Lat: rp.Latitude, Lon: rp.Longitude}
	}
	return out
}

// Marshal serializes a record. Non-finite coordinates cannot be represented and
// yield ErrMalformedRecord.
func Marshal(rec domain.Record) ([]byte, error) {
	if rec.Points == nil {
		rec.Points = []domain.RecordPoint{}
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}
	return data, nil
}

// Unmarshal parses and validates a stored record. It fails with
// ErrMalformedRecord when "points" is missing or not an array, or when any
// entry lacks a numeric latitude or longitude.
func Unmarshal(data []byte) (domain.Record, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return domain.Record{}, malformed("not a JSON object: %v", err)
	}

	raw, ok := top["points"]
	if !ok {
		return domain.Record{}, malformed("missing points")
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return domain.Record{}, malformed("points is not an array")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return domain.Record{}, malformed("points: %v", err)
	}

	rec := domain.Record{Points: make([]domain.RecordPoint, 0, len(items))}
	for i, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			return domain.Record{}, malformed("points[%d] is not an object", i)
		}
		lat, err := number(fields, "latitude")
		if err != nil {
			return domain.Record{}, malformed("points[%d]: %v", i, err)
		}
		lon, err := number(fields, "longitude")
		if err != nil {
			return domain.Record{}, malformed("points[%d]: %v", i, err)
		}
		rp := domain.RecordPoint{Latitude: lat, Longitude: lon}
		if n, err := number(fields, "point_number"); err == nil {
			rp.PointNumber = int(n)
		}
		rec.Points = append(rec.Points, rp)
	}
	return rec, nil
}

// DecodeBytes is Unmarshal followed by Decode.
func DecodeBytes(data []byte) ([]domain.GeoPoint, error) {
	rec, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return Decode(rec), nil
}

// EncodeBytes is Encode followed by Marshal.
func EncodeBytes(points []domain.GeoPoint) ([]byte, error) {
	return Marshal(Encode(points))
}

func number(fields map[string]json.RawMessage, key string) (float64, error) {
	raw, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("missing %s", key)
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("%s: %v", key, err)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%s is not a number", key)
	}
	return f, nil
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", domain.ErrMalformedRecord, fmt.Sprintf(format, args...))
}
