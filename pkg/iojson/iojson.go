// Package iojson holds helpers for writing JSON from command line tools.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// Error is the JSON shape of a command failure.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func jsonError(msg string, jsonErr error) string {
	msgBytes, _ := json.Marshal(msg)
	errBytes, _ := json.Marshal(jsonErr.Error())
	return fmt.Sprintf(`{"message":%s,"data":{"json_error":%s}}`, msgBytes, errBytes)
}

// MarshalError renders msg and data as an indented Error. If data cannot be
// marshaled the result still carries msg, plus the marshaling error.
func MarshalError(msg string, data map[string]any) string {
	bits, err := json.MarshalIndent(Error{Message: msg, Data: data}, "", "  ")
	if err != nil {
		return jsonError(msg, err)
	}
	return string(bits)
}

// WriteError writes an Error object to w.
func WriteError(w io.Writer, msg string, data map[string]any) error {
	_, err := fmt.Fprintln(w, MarshalError(msg, data))
	return err
}

// WriteWith writes obj as indented JSON to w. Marshaling failures are
// reported to ew.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		_, err = fmt.Fprintln(ew, jsonError("error marshaling in iojson.WriteWith", err))
		return err
	}
	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteLine writes obj as a single line of JSON.
func WriteLine(w io.Writer, obj any) error {
	bits, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("marshal line: %w", err)
	}
	_, err = fmt.Fprintln(w, string(bits))
	return err
}
