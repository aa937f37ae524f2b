package remote

import (
	"bytes"
	"encoding/json"
	"errors"
)

// shapeKind enumerates the response layouts the backend is known to use.
type shapeKind int

const (
	unknownShape shapeKind = iota
	// arrayShape is a bare JSON array or object.
	arrayShape
	// wrappedShape is {"data": ...}.
	wrappedShape
	// envelopeShape is {"success": true, "data": ...}.
	envelopeShape
	// failedShape is {"success": false, ...}.
	failedShape
)

type shape struct {
	kind    shapeKind
	payload json.RawMessage
	message string
}

type envelopeProbe struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// classify inspects a response body once and tags it with its layout.
func classify(body []byte) shape {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return shape{kind: unknownShape}
	}
	if trimmed[0] == '[' {
		return shape{kind: arrayShape, payload: trimmed}
	}
	if trimmed[0] != '{' {
		return shape{kind: unknownShape}
	}

	var probe envelopeProbe
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return shape{kind: unknownShape}
	}
	switch {
	case probe.Success != nil && !*probe.Success:
		return shape{kind: failedShape, message: probeMessage(probe)}
	case probe.Success != nil:
		return shape{kind: envelopeShape, payload: probe.Data}
	case isComposite(probe.Data):
		return shape{kind: wrappedShape, payload: probe.Data}
	default:
		return shape{kind: arrayShape, payload: trimmed}
	}
}

func isComposite(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && (raw[0] == '[' || raw[0] == '{')
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func probeMessage(p envelopeProbe) string {
	if p.Message != "" {
		return p.Message
	}
	var text string
	if err := json.Unmarshal(p.Error, &text); err == nil && text != "" {
		return text
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(p.Error, &nested); err == nil && nested.Message != "" {
		return nested.Message
	}
	return "backend reported failure"
}

// decodeList maps every known layout onto a slice. Layouts that do not carry an array
// decode to an empty slice; only an explicit failure envelope is an error.
func decodeList[T any](body []byte) ([]T, error) {
	s := classify(body)
	switch s.kind {
	case failedShape:
		return nil, errors.New(s.message)
	case arrayShape, wrappedShape, envelopeShape:
		if !isArray(s.payload) {
			return []T{}, nil
		}
		var items []T
		if err := json.Unmarshal(s.payload, &items); err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}
		return items, nil
	default:
		return []T{}, nil
	}
}

// decodeRecord extracts a single record. found is false when the body carries no object.
func decodeRecord[T any](body []byte) (record T, found bool, err error) {
	s := classify(body)
	switch s.kind {
	case failedShape:
		return record, false, errors.New(s.message)
	case arrayShape, wrappedShape, envelopeShape:
		if !isObject(s.payload) {
			return record, false, nil
		}
		if err := json.Unmarshal(s.payload, &record); err != nil {
			return record, false, err
		}
		return record, true, nil
	default:
		return record, false, nil
	}
}

// errorMessage pulls a human readable reason out of an error response body.
func errorMessage(body []byte) string {
	var probe envelopeProbe
	if err := json.Unmarshal(bytes.TrimSpace(body), &probe); err == nil {
		if msg := probeMessage(probe); msg != "backend reported failure" {
			return msg
		}
	}
	text := string(bytes.TrimSpace(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
