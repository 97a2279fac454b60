package evidence

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"

	"github.com/bellujrb/zkvip-ethglobal/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New()
}

func TestFetchHappyPath(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"accounts": []}`))
	}))
	defer srv.Close()

	adapter := NewSourceAdapter(nil, testLogger())
	ev, err := adapter.Fetch(context.Background(), SourceConfig{URL: srv.URL, BearerToken: "token-123"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if gotAuth != "Bearer token-123" {
		t.Errorf("Expected bearer header, got %q", gotAuth)
	}
	if string(ev.RawPayload) != `{"accounts": []}` {
		t.Errorf("Unexpected payload: %s", ev.RawPayload)
	}
	if ev.SourceURL != srv.URL {
		t.Errorf("Evidence lost its source URL")
	}
	if ev.RetrievedAt.IsZero() {
		t.Error("RetrievedAt not set")
	}
}

func TestFetchRejectedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	adapter := NewSourceAdapter(nil, testLogger())
	_, err := adapter.Fetch(context.Background(), SourceConfig{URL: srv.URL})
	if !errors.Is(err, ErrSourceRejected) {
		t.Errorf("Expected ErrSourceRejected, got %v", err)
	}
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	adapter := NewSourceAdapter(nil, testLogger())
	_, err := adapter.Fetch(context.Background(), SourceConfig{URL: srv.URL})
	if !errors.Is(err, ErrSourceUnreachable) {
		t.Errorf("Expected ErrSourceUnreachable, got %v", err)
	}
}

func TestFetchUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	adapter := NewSourceAdapter(nil, testLogger())
	_, err := adapter.Fetch(context.Background(), SourceConfig{URL: url})
	if !errors.Is(err, ErrSourceUnreachable) {
		t.Errorf("Expected ErrSourceUnreachable, got %v", err)
	}
}

func TestFetchEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	adapter := NewSourceAdapter(nil, testLogger())
	_, err := adapter.Fetch(context.Background(), SourceConfig{URL: srv.URL})
	if !errors.Is(err, ErrSourceUnreachable) {
		t.Errorf("Expected ErrSourceUnreachable for empty body, got %v", err)
	}
}

func TestFetchCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	adapter := NewSourceAdapter(nil, testLogger())
	_, err := adapter.Fetch(ctx, SourceConfig{URL: srv.URL})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestVerifyPlainJson(t *testing.T) {
	view, err := NewVerifier().Verify(Evidence{
		SourceURL:  "https://bank.test",
		RawPayload: []byte(`{"bank": {"name": "Test"}, "accounts": [{"balance": 10.999999}]}`),
	})
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	name, err := view.GetString("bank.name")
	if err != nil || name != "Test" {
		t.Errorf("GetString(bank.name) = %q, %v", name, err)
	}

	raw, err := view.GetRaw("accounts.0.balance")
	if err != nil {
		t.Fatalf("GetRaw failed: %v", err)
	}
	if raw != "10.999999" {
		t.Errorf("Raw literal changed: %q", raw)
	}
}

func TestVerifyRejectsMalformedPayloads(t *testing.T) {
	verifier := NewVerifier()
	for _, payload := range []string{"", "not json", `[1,2,3]`, `"just a string"`} {
		if _, err := verifier.Verify(Evidence{RawPayload: []byte(payload)}); !errors.Is(err, ErrMalformedEvidence) {
			t.Errorf("Payload %q: expected ErrMalformedEvidence, got %v", payload, err)
		}
	}
}

func TestVerifySignedEvidence(t *testing.T) {
	rawKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	privKey, err := jwk.FromRaw(rawKey)
	if err != nil {
		t.Fatalf("jwk from raw: %v", err)
	}
	_ = privKey.Set(jwk.KeyIDKey, "test-key")
	_ = privKey.Set(jwk.AlgorithmKey, jwa.ES256)

	payload := []byte(`{"bank": {"name": "Signed Bank"}, "accounts": []}`)
	signed, err := jws.Sign(payload, jws.WithKey(jwa.ES256, privKey))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	pubKey, err := privKey.PublicKey()
	if err != nil {
		t.Fatalf("public key: %v", err)
	}
	keySet := jwk.NewSet()
	_ = keySet.AddKey(pubKey)

	view, err := NewVerifierWithKeySet(keySet).Verify(Evidence{RawPayload: signed})
	if err != nil {
		t.Fatalf("Verify of signed evidence failed: %v", err)
	}
	name, err := view.GetString("bank.name")
	if err != nil || name != "Signed Bank" {
		t.Errorf("GetString after signature check = %q, %v", name, err)
	}
}

func TestVerifySignedEvidenceWrongKey(t *testing.T) {
	signKey, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	otherKey, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)

	privKey, _ := jwk.FromRaw(signKey)
	_ = privKey.Set(jwk.AlgorithmKey, jwa.ES256)
	signed, err := jws.Sign([]byte(`{"a": 1}`), jws.WithKey(jwa.ES256, privKey))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	wrongJwk, _ := jwk.FromRaw(otherKey)
	wrongPub, _ := wrongJwk.PublicKey()
	_ = wrongPub.Set(jwk.AlgorithmKey, jwa.ES256)
	keySet := jwk.NewSet()
	_ = keySet.AddKey(wrongPub)

	if _, err := NewVerifierWithKeySet(keySet).Verify(Evidence{RawPayload: signed}); !errors.Is(err, ErrMalformedEvidence) {
		t.Errorf("Expected ErrMalformedEvidence for bad signature, got %v", err)
	}
}

func TestViewPathErrors(t *testing.T) {
	view, err := NewVerifier().Verify(Evidence{RawPayload: []byte(`{"a": {"b": 1}}`)})
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if _, err := view.GetString("a.missing"); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("Expected ErrPathNotFound, got %v", err)
	}

	var pathErr *PathError
	_, err = view.GetNumber("nope")
	if !errors.As(err, &pathErr) || pathErr.Path != "nope" {
		t.Errorf("Expected PathError with path, got %v", err)
	}

	if _, err := view.GetString("a.b"); !errors.Is(err, ErrMalformedEvidence) {
		t.Errorf("Expected type mismatch error, got %v", err)
	}

	n, err := view.GetNumber("a.b")
	if err != nil || n != 1 {
		t.Errorf("GetNumber(a.b) = %v, %v", n, err)
	}
}
