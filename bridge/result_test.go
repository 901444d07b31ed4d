package bridge

import (
	"errors"
	"testing"
)

func TestResultSuccessValue(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "Hello, World!", "Hello, World!"},
		{"empty string", "", ""},
		{"nil", nil, ""},
		{"number", 42, "42"},
		{"object", map[string]int{"a": 1}, `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := SuccessValue(tc.value)
			if !res.Ok() {
				t.Fatalf("SuccessValue(%v) failed: %v", tc.value, res.Err())
			}
			if got := res.Value(); got != tc.want {
				t.Fatalf("Value() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFailureWrapsInvocationError(t *testing.T) {
	t.Parallel()

	cause := errors.New("backend exploded")
	res := Failure(cause)
	if res.Ok() {
		t.Fatal("Failure() should not be ok")
	}
	if !errors.Is(res.Err(), ErrInvocation) || !errors.Is(res.Err(), cause) {
		t.Fatalf("Err() = %v, want ErrInvocation wrapping cause", res.Err())
	}
	if res.Value() != "" {
		t.Fatalf("failed Value() = %q, want empty", res.Value())
	}

	again := Failure(res.Err())
	if again.Err() != res.Err() {
		t.Fatalf("Failure() rewrapped an invocation error: %v", again.Err())
	}
	if !errors.Is(Failure(nil).Err(), ErrInvocation) {
		t.Fatal("Failure(nil) should still carry ErrInvocation")
	}
}

func TestResultDecode(t *testing.T) {
	t.Parallel()

	var names []string
	if err := SuccessValue([]string{"greet"}).Decode(&names); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(names) != 1 || names[0] != "greet" {
		t.Fatalf("Decode() = %v", names)
	}

	var n int
	err := Success([]byte(`"nope"`)).Decode(&n)
	if !errors.Is(err, ErrInvocation) {
		t.Fatalf("Decode() mismatch error = %v, want ErrInvocation", err)
	}
}

func TestResponseMalformedResult(t *testing.T) {
	t.Parallel()

	res := Response{ID: "req-1", Result: []byte(`{"broken"`)}.result()
	if res.Ok() || !errors.Is(res.Err(), ErrInvocation) {
		t.Fatalf("malformed response result = %v, want invocation failure", res)
	}
	res = Response{ID: "req-2", Error: "unknown command"}.result()
	if res.Ok() || res.Err().Error() != "command invocation failed: unknown command" {
		t.Fatalf("error response result = %v", res)
	}
}
