package evidence

import (
	"errors"
	"time"
)

// Evidence is a raw snapshot of externally sourced account data. It is
// immutable once created: the adapter builds it, the verifier reads it,
// nobody mutates it.
type Evidence struct {
	SourceURL   string
	RawPayload  []byte
	RetrievedAt time.Time
}

var (
	ErrSourceUnreachable = errors.New("evidence source unreachable")
	ErrSourceRejected    = errors.New("evidence source rejected credentials")
	ErrMalformedEvidence = errors.New("malformed evidence payload")
	ErrPathNotFound      = errors.New("path not found in evidence")
)
