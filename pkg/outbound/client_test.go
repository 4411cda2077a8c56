package outbound

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, statusCode int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(env)
}

func TestClientAttachesSessionHeader(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get(SessionHeader)
		writeEnvelope(w, 200, envelope{Status: "success", StatusCode: 200})
	}))
	defer srv.Close()

	session := NewSessionContext("tok-123", nil)
	client := NewClient(srv.URL, session)

	err := client.do(context.Background(), http.MethodGet, "/dealership/live-inventory/", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", gotToken)
}

func TestClientMapsValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 400, envelope{
			Status:     "error",
			StatusCode: 400,
			Error:      "validation failed",
			Fields: map[string]string{
				"buyers_name":   "is required",
				"selling_price": "must be a decimal",
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, NewSessionContext("tok", nil))
	err := client.do(context.Background(), http.MethodPost, "/dealership/outbound-vehicle/v1/", map[string]string{}, nil)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "is required", ve.Fields["buyers_name"])
	// Joined message lists fields alphabetically.
	assert.Equal(t, "buyers_name: is required; selling_price: must be a decimal", ve.Error())
}

func TestClientFiresSessionExpiredOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 401, envelope{Status: "error", StatusCode: 401, Error: "token expired"})
	}))
	defer srv.Close()

	fired := 0
	session := NewSessionContext("tok", func() { fired++ })
	client := NewClient(srv.URL, session)

	for i := 0; i < 3; i++ {
		err := client.do(context.Background(), http.MethodGet, "/dealership/outbound/", nil, nil)
		var ae *AuthError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, 401, ae.StatusCode)
	}

	assert.Equal(t, 1, fired, "expired callback must fire once per session")
	assert.Empty(t, session.Token())

	// A fresh login re-arms the callback.
	session.SetToken("tok-2")
	err := client.do(context.Background(), http.MethodGet, "/dealership/outbound/", nil, nil)
	assert.True(t, IsAuthError(err))
	assert.Equal(t, 2, fired)
}

func TestClientMapsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 404, envelope{Status: "error", StatusCode: 404, Error: "outbound record not found"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, NewSessionContext("tok", nil))
	err := client.do(context.Background(), http.MethodGet, "/dealership/outbound-vehicle/v1/", nil, nil)

	assert.True(t, IsNotFound(err))
	assert.EqualError(t, err, "outbound record not found")
}

func TestClientMapsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := NewClient(srv.URL, NewSessionContext("tok", nil))
	err := client.do(context.Background(), http.MethodGet, "/dealership/live-inventory/", nil, nil)

	var ne *NetworkError
	assert.True(t, errors.As(err, &ne))
}

func TestClientDropsResponsesAfterClose(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		writeEnvelope(w, 200, envelope{Status: "success", StatusCode: 200, Data: json.RawMessage(`{"vehicles":[],"total":0}`)})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, NewSessionContext("tok", nil))

	done := make(chan error, 1)
	go func() {
		var out liveInventoryWire
		done <- client.do(context.Background(), http.MethodGet, "/dealership/live-inventory/", nil, &out)
	}()

	client.Close()
	close(release)

	err := <-done
	assert.ErrorIs(t, err, ErrStaleResponse)

	// New requests on a closed client are refused outright.
	err = client.do(context.Background(), http.MethodGet, "/dealership/live-inventory/", nil, nil)
	assert.ErrorIs(t, err, ErrStaleResponse)
}
