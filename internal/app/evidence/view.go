package evidence

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// VerifiedView is a read-only, path-addressable view over evidence whose
// payload parsed (and, for signed evidence, whose signature verified).
// Construction goes through Verifier.Verify; there is no other way to
// obtain one.
type VerifiedView struct {
	SourceURL string

	payload []byte
	root    gjson.Result
}

// PathError reports a missing segment in a dot-path lookup.
type PathError struct {
	Path string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path %q not found in evidence", e.Path)
}

func (e *PathError) Unwrap() error { return ErrPathNotFound }

// GetString resolves a dot-separated path to a string field. Missing
// segments are an explicit error, never a silent default.
func (vv *VerifiedView) GetString(path string) (string, error) {
	res := vv.root.Get(path)
	if !res.Exists() {
		return "", &PathError{Path: path}
	}
	if res.Type != gjson.String {
		return "", fmt.Errorf("%w: field %q is not a string", ErrMalformedEvidence, path)
	}
	return res.String(), nil
}

// GetNumber resolves a dot-separated path to a numeric field.
func (vv *VerifiedView) GetNumber(path string) (float64, error) {
	res := vv.root.Get(path)
	if !res.Exists() {
		return 0, &PathError{Path: path}
	}
	if res.Type != gjson.Number {
		return 0, fmt.Errorf("%w: field %q is not a number", ErrMalformedEvidence, path)
	}
	return res.Float(), nil
}

// GetRaw resolves a path to the exact JSON literal at that location. Used
// where the decimal text must survive untouched (balances).
func (vv *VerifiedView) GetRaw(path string) (string, error) {
	res := vv.root.Get(path)
	if !res.Exists() {
		return "", &PathError{Path: path}
	}
	return res.Raw, nil
}

// Decode unmarshals the whole verified payload into a typed schema. Numbers
// decode as json.Number so decimal balances keep their exact text form.
func (vv *VerifiedView) Decode(out any) error {
	dec := json.NewDecoder(bytes.NewReader(vv.payload))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvidence, err)
	}
	return nil
}
