package mywaifulist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Form is how a response body is laid out
type Form int

const (
	// FormSingle is one JSON object
	FormSingle Form = iota + 1
	// FormList is a bare JSON array of objects
	FormList
	// FormPaginated is an object holding a data array and page metadata
	FormPaginated
)

// String returns the string representation of a Form
func (f Form) String() string {
	switch f {
	case FormSingle:
		return "single"
	case FormList:
		return "list"
	case FormPaginated:
		return "paginated"
	default:
		return "unknown"
	}
}

// Shape describes how to decode a success body into T. Shapes are built only by
// SingleOf, ListOf and PageOf, which tie T to the entity at compile time.
type Shape[T any] struct {
	form   Form
	kind   EntityKind
	decode func(body []byte) (T, string, error)
}

// Form returns the body layout of the shape
func (s Shape[T]) Form() Form { return s.form }

// Kind returns the entity schema of the shape
func (s Shape[T]) Kind() EntityKind { return s.kind }

// String renders the shape as e.g. "list(filtered-waifu)"
func (s Shape[T]) String() string {
	return fmt.Sprintf("%s(%s)", s.form, s.kind)
}

// SingleOf decodes one entity object
func SingleOf[E Entity]() Shape[E] {
	var zero E
	return Shape[E]{
		form: FormSingle,
		kind: zero.EntityKind(),
		decode: func(body []byte) (E, string, error) {
			var value E
			if field, err := unmarshal(body, &value); err != nil {
				return value, field, err
			}
			if field, err := requireObject[E](body); err != nil {
				return value, field, err
			}
			return value, "", nil
		},
	}
}

// ListOf decodes a bare array of entities
func ListOf[E Entity]() Shape[[]E] {
	var zero E
	return Shape[[]E]{
		form: FormList,
		kind: zero.EntityKind(),
		decode: func(body []byte) ([]E, string, error) {
			var values []E
			if field, err := unmarshal(body, &values); err != nil {
				return nil, field, err
			}
			if values == nil {
				return nil, "", errors.New("expected a JSON array, got null")
			}
			if field, err := requireElements[E](body, ""); err != nil {
				return nil, field, err
			}
			return values, "", nil
		},
	}
}

// PageOf decodes a pagination envelope of entities
func PageOf[E Entity]() Shape[Page[E]] {
	var zero E
	return Shape[Page[E]]{
		form: FormPaginated,
		kind: zero.EntityKind(),
		decode: func(body []byte) (Page[E], string, error) {
			var page Page[E]
			if field, err := unmarshal(body, &page); err != nil {
				return Page[E]{}, field, err
			}
			var envelope map[string]json.RawMessage
			if field, err := unmarshal(body, &envelope); err != nil {
				return Page[E]{}, field, err
			}
			if envelope == nil {
				return Page[E]{}, "", errors.New("expected a JSON object, got null")
			}
			if key := missingField[Page[E]](envelope); key != "" {
				return Page[E]{}, key, errMissingField
			}
			if field, err := requireElements[E](envelope["data"], "data"); err != nil {
				return Page[E]{}, field, err
			}
			return page, "", nil
		},
	}
}

// Decode maps a transport result onto a typed Result. A 2xx body is decoded with
// shape; anything else is read as the API's error envelope.
func Decode[T any](raw RawResult, shape Shape[T]) Result[T] {
	if shape.decode == nil {
		panic("mywaifulist: Decode called with a zero Shape")
	}

	if !raw.IsSuccess() {
		return Fail[T](decodeAPIError(raw))
	}

	value, field, err := shape.decode([]byte(raw.Body))
	if err != nil {
		return Fail[T](newMappingError(shape.String(), field, raw.Body, err))
	}
	return Ok(value)
}

// errorEnvelope is the body the API sends alongside a non-2xx status
type errorEnvelope struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

func decodeAPIError(raw RawResult) *Error {
	var envelope errorEnvelope
	if err := json.Unmarshal([]byte(raw.Body), &envelope); err == nil {
		message := strings.TrimSpace(envelope.Message)
		if message == "" && len(envelope.Error) > 0 {
			var s string
			if json.Unmarshal(envelope.Error, &s) == nil {
				message = strings.TrimSpace(s)
			}
		}
		if message != "" {
			return newAPIError(raw.StatusCode, message, raw.Body)
		}
	}
	return newAPIError(raw.StatusCode, fallbackMessage(raw.StatusCode), raw.Body)
}

func fallbackMessage(statusCode int) string {
	return strings.TrimSpace(fmt.Sprintf("request failed with status %d %s", statusCode, http.StatusText(statusCode)))
}

// unmarshal decodes body into v and reports the offending field on type errors
func unmarshal(body []byte, v any) (string, error) {
	err := json.Unmarshal(body, v)
	if err == nil {
		return "", nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Field, fmt.Errorf("cannot decode JSON %s into %s", typeErr.Value, typeErr.Type)
	}
	return "", fmt.Errorf("malformed JSON: %w", err)
}

var validate = validator.New()

// errMissingField is the mapping error for an absent or null required key
var errMissingField = errors.New("required field is missing")

// requiredKeys caches, per struct type, the JSON keys tagged validate:"required"
var requiredKeys sync.Map

func requiredFields(t reflect.Type) []string {
	if keys, ok := requiredKeys.Load(t); ok {
		return keys.([]string)
	}

	var keys []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Tag.Get("validate") != "required" {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		keys = append(keys, name)
	}

	requiredKeys.Store(t, keys)
	return keys
}

// missingField returns the first required key of T that obj lacks or holds as
// null. Present zero values such as 0 or "" count as present.
func missingField[T any](obj map[string]json.RawMessage) string {
	keys := requiredFields(reflect.TypeFor[T]())

	data := make(map[string]any, len(keys))
	rules := make(map[string]any, len(keys))
	for _, key := range keys {
		rules[key] = "required"
		if raw, ok := obj[key]; ok && !isNull(raw) {
			data[key] = raw
		}
	}

	failed := validate.ValidateMap(data, rules)
	for _, key := range keys {
		if _, ok := failed[key]; ok {
			return key
		}
	}
	return ""
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// requireObject checks the required keys of T on a single JSON object
func requireObject[T any](body []byte) (string, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", fmt.Errorf("malformed JSON: %w", err)
	}
	if obj == nil {
		return "", errors.New("expected a JSON object, got null")
	}
	if key := missingField[T](obj); key != "" {
		return key, errMissingField
	}
	return "", nil
}

// requireElements checks the required keys of E on every object of a JSON array
func requireElements[E Entity](body []byte, prefix string) (string, error) {
	var objs []map[string]json.RawMessage
	if err := json.Unmarshal(body, &objs); err != nil {
		return "", fmt.Errorf("malformed JSON: %w", err)
	}
	for i, obj := range objs {
		if obj == nil {
			return fmt.Sprintf("%s[%d]", prefix, i), errors.New("expected a JSON object, got null")
		}
		if key := missingField[E](obj); key != "" {
			return fmt.Sprintf("%s[%d].%s", prefix, i, key), errMissingField
		}
	}
	return "", nil
}
