package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsDeterministic(t *testing.T) {
	first := UUID("go-cms-admin:test:alpha")
	second := UUID("  go-cms-admin:test:alpha ")
	if first == uuid.Nil || first != second {
		t.Fatalf("expected stable non-nil uuid, got %s and %s", first, second)
	}
	if UUID("go-cms-admin:test:beta") == first {
		t.Fatalf("expected distinct keys to produce distinct uuids")
	}
	if UUID(" ") != uuid.Nil {
		t.Fatalf("expected nil uuid for blank key")
	}
}

func TestIdempotencyKeyDependsOnRequest(t *testing.T) {
	base := IdempotencyKey("s", "post", "https://api/files", []byte(`{"name":"A"}`))
	if base != IdempotencyKey("s", "POST", "https://api/files", []byte(`{"name":"A"}`)) {
		t.Fatalf("expected method case to be ignored")
	}
	variants := []uuid.UUID{
		IdempotencyKey("other", "POST", "https://api/files", []byte(`{"name":"A"}`)),
		IdempotencyKey("s", "POST", "https://api/images", []byte(`{"name":"A"}`)),
		IdempotencyKey("s", "POST", "https://api/files", []byte(`{"name":"B"}`)),
	}
	for i, variant := range variants {
		if variant == base {
			t.Fatalf("variant %d collided with base key", i)
		}
	}
}

func TestActorUUID(t *testing.T) {
	id := uuid.New()
	if got := ActorUUID(id.String()); got != id {
		t.Fatalf("expected uuid passthrough, got %s", got)
	}
	if ActorUUID("Editor") != ActorUUID("editor") {
		t.Fatalf("expected case-insensitive actor derivation")
	}
	if ActorUUID("") != uuid.Nil {
		t.Fatalf("expected nil actor for blank input")
	}
}
