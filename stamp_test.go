package ots

import (
	"context"
	"testing"
)

type stampCalendar struct {
	responses map[string][]byte
}

func (s *stampCalendar) Submit(_ context.Context, server string, _ []byte) ([]byte, error) {
	return s.responses[server], nil
}

func (s *stampCalendar) Poll(context.Context, string, []byte) ([]byte, error) {
	return nil, nil
}

func pendingResponseBody(t *testing.T, uri string) []byte {
	t.Helper()
	ts := NewTimestamp()
	ts.AddAttestation(NewPendingAttestation(uri))
	body, err := WriteTimestamp(ts)
	if err != nil {
		t.Fatalf("WriteTimestamp: %v", err)
	}
	return body
}

func TestStamp_TwoServersSucceed(t *testing.T) {
	alice := "https://alice.btc.calendar.opentimestamps.org"
	bob := "https://bob.btc.calendar.opentimestamps.org"

	cal := &stampCalendar{responses: map[string][]byte{
		alice: pendingResponseBody(t, alice),
		bob:   pendingResponseBody(t, bob),
	}}

	f, result, err := Stamp(context.Background(), StampOptions{
		Data:     []byte("Hello World!\n"),
		Calendar: cal,
		Servers:  []string{alice, bob},
	})
	if err != nil {
		t.Fatalf("Stamp: %v", err)
	}
	if len(result.Succeeded) != 2 {
		t.Fatalf("expected 2 successes, got %+v", result)
	}

	body, err := Write(f)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	parsed, err := Parse(body)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	pendingCount := 0
	var walk func(ts *Timestamp)
	walk = func(ts *Timestamp) {
		for _, a := range ts.Attestations {
			if a.Kind == AttPending {
				pendingCount++
			}
		}
		for _, c := range ts.Ops {
			walk(c.Sub)
		}
	}
	walk(parsed.Timestamp)

	if pendingCount != 2 {
		t.Errorf("pending attestations reachable = %d, want 2", pendingCount)
	}
}

func TestStamp_NoServersSucceed(t *testing.T) {
	cal := &stampCalendar{responses: map[string][]byte{}}
	_, _, err := Stamp(context.Background(), StampOptions{
		Data:     []byte("data"),
		Calendar: cal,
		Servers:  []string{"https://dead.calendar.example"},
	})
	if err == nil {
		t.Fatal("expected NoCalendarResponseError")
	}
	if _, ok := err.(*NoCalendarResponseError); !ok {
		t.Errorf("expected *NoCalendarResponseError, got %T", err)
	}
}

func TestStamp_RequiresCalendarCollaborator(t *testing.T) {
	_, _, err := Stamp(context.Background(), StampOptions{Data: []byte("x")})
	if err == nil {
		t.Fatal("expected error when no CalendarServer is supplied")
	}
}

func TestStamp_UsesPrecomputedDigest(t *testing.T) {
	alice := "https://alice.btc.calendar.opentimestamps.org"
	cal := &stampCalendar{responses: map[string][]byte{alice: pendingResponseBody(t, alice)}}

	digest, err := DefaultHashOracle{}.Digest(context.Background(), Sha256, nil)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if got := hexOf(digest); got != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Fatalf("SHA-256 of empty input = %s, want e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", got)
	}

	f, _, err := Stamp(context.Background(), StampOptions{
		Digest:   digest,
		Calendar: cal,
		Servers:  []string{alice},
	})
	if err != nil {
		t.Fatalf("Stamp: %v", err)
	}
	if string(f.FileDigest) != string(digest) {
		t.Error("stamped file digest does not match the supplied precomputed digest")
	}
}

func hexOf(b []byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hexDigits[v>>4]
		out[i*2+1] = hexDigits[v&0x0f]
	}
	return string(out)
}
