package ui

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/higenie/higenie/bridge"
)

func greeting(name string) bridge.Result {
	return bridge.SuccessValue("Hello, " + name + "!")
}

func TestSubmitCarriesInputVerbatim(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "World", "  padded  "} {
		s, call := State{}.SetInput(input).Submit()
		if call.Name != input {
			t.Errorf("Submit() name = %q, want %q", call.Name, input)
		}
		if s.Input != input {
			t.Errorf("Submit() cleared input: %q", s.Input)
		}
		if call.Seq != 1 || s.Seq != 1 || s.Pending != 1 {
			t.Errorf("Submit() seq/pending = %d/%d/%d, want 1/1/1", call.Seq, s.Seq, s.Pending)
		}
	}
}

func TestResolveWorldGreeting(t *testing.T) {
	t.Parallel()

	s, call := State{}.SetInput("World").Submit()
	s = s.Resolve(call.Seq, greeting("World"), LatestIssued)

	want := State{Input: "World", Response: "Hello, World!", Seq: 1, Applied: 1}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveEmptyName(t *testing.T) {
	t.Parallel()

	s, call := State{}.Submit()
	if call.Name != "" {
		t.Fatalf("call name = %q, want empty", call.Name)
	}
	s = s.Resolve(call.Seq, greeting(""), LatestIssued)
	if s.Response != "Hello, !" {
		t.Fatalf("Response = %q, want backend's answer for empty name", s.Response)
	}
}

func TestOverlappingSubmissions(t *testing.T) {
	t.Parallel()

	s := State{}.SetInput("A")
	s, callA := s.Submit()
	s = s.SetInput("B")
	s, callB := s.Submit()
	if s.Pending != 2 {
		t.Fatalf("Pending = %d, want 2", s.Pending)
	}

	// B resolves first, then A.
	t.Run("last resolved wins", func(t *testing.T) {
		got := s.Resolve(callB.Seq, greeting("B"), LastResolved)
		got = got.Resolve(callA.Seq, greeting("A"), LastResolved)
		if got.Response != "Hello, A!" {
			t.Fatalf("Response = %q, want A's result (resolved last)", got.Response)
		}
		if got.Pending != 0 || got.Applied != callA.Seq {
			t.Fatalf("Pending/Applied = %d/%d, want 0/%d", got.Pending, got.Applied, callA.Seq)
		}
	})

	t.Run("latest issued wins", func(t *testing.T) {
		got := s.Resolve(callB.Seq, greeting("B"), LatestIssued)
		got = got.Resolve(callA.Seq, greeting("A"), LatestIssued)
		if got.Response != "Hello, B!" {
			t.Fatalf("Response = %q, want B's result (latest submission)", got.Response)
		}
		if got.Pending != 0 || got.Applied != callB.Seq {
			t.Fatalf("Pending/Applied = %d/%d, want 0/%d", got.Pending, got.Applied, callB.Seq)
		}
	})

	t.Run("in order", func(t *testing.T) {
		for _, order := range []Ordering{LatestIssued, LastResolved} {
			got := s.Resolve(callA.Seq, greeting("A"), order)
			got = got.Resolve(callB.Seq, greeting("B"), order)
			if got.Response != "Hello, B!" {
				t.Fatalf("%s: Response = %q, want B", order, got.Response)
			}
		}
	})
}

func TestFailureKeepsPriorResponse(t *testing.T) {
	t.Parallel()

	s, call := State{}.SetInput("World").Submit()
	s = s.Resolve(call.Seq, greeting("World"), LatestIssued)

	s, call = s.SetInput("Mars").Submit()
	s = s.Resolve(call.Seq, bridge.Failure(errors.New("backend down")), LatestIssued)

	if s.Response != "Hello, World!" {
		t.Fatalf("Response = %q, want prior value kept", s.Response)
	}
	if s.Err != "command invocation failed: backend down" {
		t.Fatalf("Err = %q", s.Err)
	}
	if s.Pending != 0 {
		t.Fatalf("Pending = %d, want 0 so the user can resubmit", s.Pending)
	}

	// Resubmitting after a failure clears the error on success.
	s, call = s.Submit()
	s = s.Resolve(call.Seq, greeting("Mars"), LatestIssued)
	if s.Response != "Hello, Mars!" || s.Err != "" {
		t.Fatalf("after retry Response/Err = %q/%q", s.Response, s.Err)
	}
}

func TestStaleFailureIsDropped(t *testing.T) {
	t.Parallel()

	s, callA := State{}.SetInput("A").Submit()
	s, callB := s.SetInput("B").Submit()
	s = s.Resolve(callB.Seq, greeting("B"), LatestIssued)
	s = s.Resolve(callA.Seq, bridge.Failure(errors.New("late failure")), LatestIssued)

	if s.Err != "" || s.Response != "Hello, B!" {
		t.Fatalf("stale failure applied: Response=%q Err=%q", s.Response, s.Err)
	}
}

func TestInfoToggleIsIsolated(t *testing.T) {
	t.Parallel()

	s, call := State{}.SetInput("World").Submit()
	s = s.Resolve(call.Seq, greeting("World"), LatestIssued)

	toggled := s.ToggleInfo()
	if !toggled.InfoOpen {
		t.Fatal("ToggleInfo() should open the panel")
	}
	if toggled.Input != s.Input || toggled.Response != s.Response {
		t.Fatalf("ToggleInfo() changed form data: %+v", toggled)
	}
	closed := toggled.CloseInfo()
	if diff := cmp.Diff(s, closed); diff != "" {
		t.Fatalf("toggle+close should restore the state (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(s, s.ToggleInfo().ToggleInfo()); diff != "" {
		t.Fatalf("double toggle mismatch (-want +got):\n%s", diff)
	}
}

func TestStateIsSerializable(t *testing.T) {
	t.Parallel()

	s, _ := State{}.SetInput("World").Submit()
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var back State
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(s, back); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOrdering(t *testing.T) {
	t.Parallel()

	if ParseOrdering("last-resolved") != LastResolved {
		t.Fatal("ParseOrdering(last-resolved) mismatch")
	}
	for _, in := range []string{"", "latest-issued", "bogus"} {
		if ParseOrdering(in) != LatestIssued {
			t.Errorf("ParseOrdering(%q) should default to latest-issued", in)
		}
	}
}
