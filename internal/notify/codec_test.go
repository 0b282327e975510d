package notify

import (
	"bytes"
	"io"
	"testing"
)

func TestEmitterDecoderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)

	if err := e.Emit(StampedEvent{Type: TypeStamped, Digest: "abcd", Succeeded: []string{"alice"}}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := e.Emit(UpgradedEvent{Type: TypeUpgraded, Digest: "abcd", Upgraded: 1}); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	d := NewDecoder(&buf)

	var stamped StampedEvent
	if err := d.Next(&stamped); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if stamped.Type != TypeStamped || len(stamped.Succeeded) != 1 {
		t.Errorf("unexpected stamped event: %+v", stamped)
	}

	var upgraded UpgradedEvent
	if err := d.Next(&upgraded); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if upgraded.Upgraded != 1 {
		t.Errorf("upgraded = %d, want 1", upgraded.Upgraded)
	}

	if err := d.Next(&upgraded); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}
