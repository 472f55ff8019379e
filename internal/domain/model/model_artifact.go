package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ModelArtifact is a serialized scoring model as kept in the artifact store.
type ModelArtifact struct {
	updatedAt time.Time
	name      string
	checksum  string
	payload   []byte
}

// NewModelArtifact wraps payload under name and computes its checksum.
func NewModelArtifact(name string, payload []byte) (ModelArtifact, error) {
	if name == "" {
		return ModelArtifact{}, fmt.Errorf("artifact name is required")
	}
	if len(payload) == 0 {
		return ModelArtifact{}, fmt.Errorf("artifact payload is empty")
	}

	return ModelArtifact{
		name:      name,
		payload:   append([]byte(nil), payload...),
		checksum:  Checksum(payload),
		updatedAt: time.Now().UTC(),
	}, nil
}

// ReconstructModelArtifact rebuilds an artifact from persistence without
// recomputing fields.
func ReconstructModelArtifact(name string, payload []byte, checksum string, updatedAt time.Time) ModelArtifact {
	return ModelArtifact{
		name:      name,
		payload:   payload,
		checksum:  checksum,
		updatedAt: updatedAt,
	}
}

// Checksum returns the hex SHA-256 digest of payload.
func Checksum(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Verify reports an error when the stored checksum does not match the payload.
func (a ModelArtifact) Verify() error {
	if got := Checksum(a.payload); got != a.checksum {
		return fmt.Errorf("checksum mismatch for artifact %q: stored %s, computed %s", a.name, a.checksum, got)
	}
	return nil
}

func (a ModelArtifact) Name() string         { return a.name }
func (a ModelArtifact) Checksum() string     { return a.checksum }
func (a ModelArtifact) UpdatedAt() time.Time { return a.updatedAt }

// Payload returns a copy of the serialized model.
func (a ModelArtifact) Payload() []byte {
	return append([]byte(nil), a.payload...)
}
