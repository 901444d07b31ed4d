package bridge

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Args is the argument payload of a command: a JSON object keyed by
// parameter name.
type Args struct {
	raw []byte
}

// NewArgs returns an empty argument object.
func NewArgs() Args {
	return Args{raw: []byte("{}")}
}

// ParseArgs validates raw as a JSON object.
func ParseArgs(raw []byte) (Args, error) {
	if len(raw) == 0 {
		return NewArgs(), nil
	}
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return Args{}, fmt.Errorf("%w: args must be a JSON object", ErrInvocation)
	}
	return Args{raw: append([]byte(nil), raw...)}, nil
}

// Set returns a copy of a with key set to value.
func (a Args) Set(key string, value any) (Args, error) {
	out, err := sjson.SetBytes(a.Bytes(), escapePath(key), value)
	if err != nil {
		return a, fmt.Errorf("set arg %q: %w", key, err)
	}
	return Args{raw: out}, nil
}

// Get returns the raw value of key.
func (a Args) Get(key string) gjson.Result {
	return gjson.GetBytes(a.Bytes(), escapePath(key))
}

// StringValue returns the string value of key. ok is false when the key is
// missing or not a JSON string.
func (a Args) StringValue(key string) (value string, ok bool) {
	v := a.Get(key)
	if !v.Exists() || v.Type != gjson.String {
		return "", false
	}
	return v.String(), true
}

// Keys returns the top-level parameter names in payload order.
func (a Args) Keys() []string {
	var keys []string
	gjson.ParseBytes(a.Bytes()).ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	return keys
}

// Bytes returns the encoded object, "{}" for the zero value.
func (a Args) Bytes() []byte {
	if len(a.raw) == 0 {
		return []byte("{}")
	}
	return a.raw
}

// MarshalJSON implements json.Marshaler.
func (a Args) MarshalJSON() ([]byte, error) {
	return a.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Args) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = NewArgs()
		return nil
	}
	parsed, err := ParseArgs(data)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

var (
	_ json.Marshaler   = Args{}
	_ json.Unmarshaler = (*Args)(nil)
)

var pathEscaper = strings.NewReplacer(
	`\`, `\\`,
	`.`, `\.`,
	`*`, `\*`,
	`?`, `\?`,
	`|`, `\|`,
	`#`, `\#`,
	`@`, `\@`,
	`!`, `\!`,
)

// escapePath makes key a literal gjson/sjson path component.
func escapePath(key string) string {
	return pathEscaper.Replace(key)
}
