package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// TTLArtifact bounds how long a rendered export stays cached.
const TTLArtifact = 7 * 24 * time.Hour

// Keyer derives cache keys for export artifacts and decoded images.
type Keyer interface {
	// ArtifactKey identifies one rendered export of a scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string

	// ImageKey identifies a decoded, possibly downscaled, imported image.
	ImageKey(contentHash string, maxDim int) string
}

// ArtifactKeyOpts holds every option that changes export output.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Scale      float64 `json:"scale,omitempty"`
	Backend    string  `json:"backend,omitempty"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Background string  `json:"background,omitempty"`
}

// DefaultKeyer produces hashed keys with a short type prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}

// ImageKey returns "image:<hash>".
func (DefaultKeyer) ImageKey(contentHash string, maxDim int) string {
	return hashKey("image", contentHash, maxDim)
}

// Hash returns the hex SHA-256 of data. Scene snapshots and imported image
// bytes are hashed with it before keying.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns kind + ":" + the hash of the JSON-encoded parts.
func hashKey(kind string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		// Parts are strings, ints and ArtifactKeyOpts.
		panic(err)
	}
	return kind + ":" + Hash(data)
}
