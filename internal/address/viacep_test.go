package address

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeCEP(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "01310100", SanitizeCEP("01310-100"))
	assert.Equal(t, "01310100", SanitizeCEP(" 01310 100 "))
	assert.Equal(t, "", SanitizeCEP("abc"))
}

func TestLookup(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/01310100/json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"logradouro":"Avenida Paulista","bairro":"Bela Vista","localidade":"São Paulo","uf":"sp"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	result, err := client.Lookup(context.Background(), "01310-100")
	require.NoError(t, err)

	assert.Equal(t, "Avenida Paulista", result.Street)
	assert.Equal(t, "São Paulo", result.City)
	// L'état est normalisé en majuscules
	assert.Equal(t, "SP", result.State)
}

func TestLookupUnknownCEP(t *testing.T) {
	t.Parallel()

	// ViaCEP répond 200 avec {"erro": true} pour un CEP inconnu
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"erro": true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Lookup(context.Background(), "99999-999")
	assert.ErrorIs(t, err, ErrCEPNotFound)
}

func TestLookupMalformedCEP(t *testing.T) {
	t.Parallel()

	client := NewClient("http://127.0.0.1:1", 5*time.Second)
	_, err := client.Lookup(context.Background(), "123")
	assert.Error(t, err)
}

func TestLookupTimeoutDistinguished(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Lookup(ctx, "01310-100")
	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.True(t, lookupErr.Timeout)
}

func TestLookupServerRejection(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Lookup(context.Background(), "01310-100")

	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.False(t, lookupErr.Timeout)
}
