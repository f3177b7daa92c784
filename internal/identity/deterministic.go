package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by purpose to avoid collisions.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// IdempotencyKey derives the key sent with a create request. Retrying the
// same request body against the same URL yields the same key.
func IdempotencyKey(secret, method, url string, body []byte) uuid.UUID {
	digest := sha256.Sum256(body)
	return UUID("go-cms-admin:idempotency:" + strings.TrimSpace(secret) + ":" +
		strings.ToUpper(strings.TrimSpace(method)) + ":" + strings.TrimSpace(url) + ":" +
		hex.EncodeToString(digest[:]))
}

// ActorUUID resolves a configured actor. UUID strings are used verbatim and
// any other non-empty value maps to a stable derived id.
func ActorUUID(actor string) uuid.UUID {
	trimmed := strings.TrimSpace(actor)
	if trimmed == "" {
		return uuid.Nil
	}
	if parsed, err := uuid.Parse(trimmed); err == nil {
		return parsed
	}
	return UUID("go-cms-admin:actor:" + strings.ToLower(trimmed))
}
