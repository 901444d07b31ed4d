package bridge

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestArgsSetAndStringValue(t *testing.T) {
	t.Parallel()

	args, err := NewArgs().Set("name", "World")
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok := args.StringValue("name")
	if !ok || got != "World" {
		t.Fatalf("StringValue(name) = %q, %v; want World, true", got, ok)
	}
	if string(args.Bytes()) != `{"name":"World"}` {
		t.Fatalf("Bytes() = %s", args.Bytes())
	}
}

func TestArgsEmptyStringIsPresent(t *testing.T) {
	t.Parallel()

	args, err := NewArgs().Set("name", "")
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok := args.StringValue("name")
	if !ok || got != "" {
		t.Fatalf("StringValue(name) = %q, %v; want empty, true", got, ok)
	}
}

func TestArgsKeysWithPathCharacters(t *testing.T) {
	t.Parallel()

	args, err := NewArgs().Set("first.name", "Ada")
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	args, err = args.Set("count", 3)
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if got, ok := args.StringValue("first.name"); !ok || got != "Ada" {
		t.Fatalf("StringValue(first.name) = %q, %v", got, ok)
	}
	if _, ok := args.StringValue("count"); ok {
		t.Fatal("StringValue(count) should reject a non-string value")
	}
	if _, ok := args.StringValue("missing"); ok {
		t.Fatal("StringValue(missing) should report absence")
	}
	if diff := cmp.Diff([]string{"first.name", "count"}, args.Keys()); diff != "" {
		t.Fatalf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseArgsRejectsNonObjects(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{`["World"]`, `"World"`, `{"name":`, `42`} {
		if _, err := ParseArgs([]byte(raw)); !errors.Is(err, ErrInvocation) {
			t.Errorf("ParseArgs(%s) error = %v, want ErrInvocation", raw, err)
		}
	}
	args, err := ParseArgs(nil)
	if err != nil || string(args.Bytes()) != "{}" {
		t.Fatalf("ParseArgs(nil) = %s, %v; want {}", args.Bytes(), err)
	}
}

func TestArgsJSONEmbedding(t *testing.T) {
	t.Parallel()

	args, _ := NewArgs().Set("name", "World")
	data, err := json.Marshal(Request{ID: "req-1", Command: "greet", Args: args})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"id":"req-1","command":"greet","args":{"name":"World"}}`
	if string(data) != want {
		t.Fatalf("Marshal() = %s, want %s", data, want)
	}

	var zero Request
	if err := json.Unmarshal([]byte(`{"id":"x","command":"greet","args":null}`), &zero); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if string(zero.Args.Bytes()) != "{}" {
		t.Fatalf("null args = %s, want {}", zero.Args.Bytes())
	}
}
