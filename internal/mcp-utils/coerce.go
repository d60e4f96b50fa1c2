package mcputils

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// ErrInvalidArguments is returned when tool arguments cannot be bound.
var ErrInvalidArguments = errors.New("invalid arguments")

// ArgumentGetter is an interface for getting arguments from a request
type ArgumentGetter interface {
	GetArguments() map[string]interface{}
}

// CoerceBindArguments binds MCP request arguments to a target struct using its
// json tags. Clients often send every parameter as a string, so "0.05",
// "true" and "10" are accepted for number and boolean fields. Keys the target
// does not declare are rejected so that a misspelled filter is never dropped
// silently. A blank string counts as absent, like null, so it never turns
// into a zero-valued filter.
func CoerceBindArguments[T any](request ArgumentGetter, target *T) error {
	rawArgs := blankToNil(request.GetArguments())

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(stringScalarHook, integerHook),
		Result:           target,
		TagName:          "json", // Use json tags for field mapping
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(rawArgs); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return nil
}

// blankToNil returns a copy of args with blank strings replaced by nil.
// Keys are kept so unknown ones are still reported.
func blankToNil(args map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(args))
	for k, v := range args {
		if str, ok := v.(string); ok && strings.TrimSpace(str) == "" {
			out[k] = nil
			continue
		}
		out[k] = v
	}
	return out
}

// stringScalarHook turns JSON-looking strings into booleans and numbers when
// the destination field wants one. Anything else is passed through for
// mapstructure to convert or reject.
func stringScalarHook(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	// Only process strings
	if f.Kind() != reflect.String {
		return data, nil
	}

	raw := strings.TrimSpace(data.(string))

	// Pointer fields mark optional values
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch {
	case t.Kind() == reflect.Bool:
		if raw == "true" || raw == "false" {
			return raw == "true", nil
		}
	case t.Kind() >= reflect.Int && t.Kind() <= reflect.Float64:
		var result json.Number
		if err := json.Unmarshal([]byte(raw), &result); err == nil {
			// Let mapstructure handle the number conversion
			return result, nil
		}
	}

	return data, nil
}

// integerHook rejects fractional numbers for integer fields, which
// mapstructure would otherwise truncate.
func integerHook(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() < reflect.Int || t.Kind() > reflect.Uint64 {
		return data, nil
	}

	var v float64
	switch d := data.(type) {
	case float64:
		v = d
	case json.Number:
		parsed, err := d.Float64()
		if err != nil {
			return data, nil
		}
		v = parsed
	default:
		return data, nil
	}

	if v != math.Trunc(v) {
		return nil, fmt.Errorf("expected an integer, got %v", v)
	}
	return data, nil
}
