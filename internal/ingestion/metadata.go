package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// documentIDHexLen is how much of the content hash a derived id keeps.
const documentIDHexLen = 16

// Metadata describes one ingested resume file.
type Metadata struct {
	Source     string    `json:"source,omitempty"` // base file name
	IngestedAt time.Time `json:"ingestedAt"`
	Hash       string    `json:"hash"` // SHA-256 of the cleaned text, hex
	Chars      int       `json:"chars"`
	Quality    Quality   `json:"quality"`
}

// NewMetadata fingerprints cleaned text read from source.
func NewMetadata(cleaned, source string) *Metadata {
	sum := sha256.Sum256([]byte(cleaned))
	return &Metadata{
		Source:     source,
		IngestedAt: time.Now().UTC(),
		Hash:       hex.EncodeToString(sum[:]),
		Chars:      len([]rune(cleaned)),
	}
}

// DocumentID derives a snapshot id from the content hash, so the same
// resume always maps to the same snapshot.
func (m *Metadata) DocumentID() string {
	if len(m.Hash) < documentIDHexLen {
		return ""
	}
	return "doc-" + m.Hash[:documentIDHexLen]
}
