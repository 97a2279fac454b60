package evidence

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/tidwall/gjson"
)

var compactJWSPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*$`)

// Verifier validates an Evidence payload and produces a VerifiedView over it.
// A configured key set enables JWS-wrapped evidence: the provider signs the
// account document and the verifier checks the signature before exposing any
// field. Plain JSON payloads are accepted as-is (structure only).
type Verifier struct {
	keySet jwk.Set
}

func NewVerifier() *Verifier {
	return &Verifier{}
}

func NewVerifierWithKeySet(keySet jwk.Set) *Verifier {
	return &Verifier{keySet: keySet}
}

// Verify is pure: it never mutates ev and has no side effects.
func (v *Verifier) Verify(ev Evidence) (*VerifiedView, error) {
	payload := bytes.TrimSpace(ev.RawPayload)
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedEvidence)
	}

	if compactJWSPattern.Match(payload) {
		if v.keySet == nil {
			return nil, fmt.Errorf("%w: signed evidence but no verification keys configured", ErrMalformedEvidence)
		}
		verified, err := jws.Verify(payload, jws.WithKeySet(v.keySet))
		if err != nil {
			return nil, fmt.Errorf("%w: signature verification: %v", ErrMalformedEvidence, err)
		}
		payload = verified
	}

	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("%w: payload is not valid JSON", ErrMalformedEvidence)
	}
	root := gjson.ParseBytes(payload)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: payload is not a JSON object", ErrMalformedEvidence)
	}

	return &VerifiedView{
		SourceURL: ev.SourceURL,
		payload:   payload,
		root:      root,
	}, nil
}
