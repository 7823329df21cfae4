package saml

import (
	"testing"
	"time"

	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"
)

func newTestTracker(t *testing.T, maxAge time.Duration) *RequestTracker {
	t.Helper()
	key, cert := generateTestCert(t, "tracker")
	sp, err := NewSPDescriptor("https://sp.example/", "https://sp.example", cert, key)
	assert.NilError(t, err)
	return sp.NewRequestTracker([]byte("super-secret-signing-key"), maxAge)
}

func TestRequestTrackerEncodeDecodeRoundTrip(t *testing.T) {
	tracker := newTestTracker(t, time.Hour)

	token, err := tracker.Encode(TrackedRequest{ID: "_abc123", SAMLInitiationURI: "/app/dashboard"})
	assert.NilError(t, err)
	assert.Check(t, token != "")

	tr, err := tracker.Decode(token)
	assert.NilError(t, err)
	assert.Check(t, is.Equal(tr.ID, "_abc123"))
	assert.Check(t, is.Equal(tr.SAMLInitiationURI, "/app/dashboard"))
}

func TestRequestTrackerDecodeRejectsWrongSecret(t *testing.T) {
	key, cert := generateTestCert(t, "tracker-wrong-secret")
	sp, err := NewSPDescriptor("https://sp.example/", "https://sp.example", cert, key)
	assert.NilError(t, err)

	signer := sp.NewRequestTracker([]byte("secret-a"), time.Hour)
	verifier := sp.NewRequestTracker([]byte("secret-b"), time.Hour)

	token, err := signer.Encode(TrackedRequest{ID: "_xyz"})
	assert.NilError(t, err)

	_, err = verifier.Decode(token)
	assert.Check(t, err != nil)
}

func TestRequestTrackerDecodeRejectsExpiredToken(t *testing.T) {
	tracker := newTestTracker(t, time.Millisecond)

	token, err := tracker.Encode(TrackedRequest{ID: "_expiring"})
	assert.NilError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = tracker.Decode(token)
	assert.Check(t, err != nil)
}

func TestRequestTrackerDecodeRejectsGarbage(t *testing.T) {
	tracker := newTestTracker(t, time.Hour)
	_, err := tracker.Decode("not-a-jwt")
	assert.Check(t, err != nil)
}
