package freight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmavida_back_end/internal/models"
)

func quoteRequest() QuoteRequest {
	req := QuoteRequest{Products: []QuoteParcel{{Weight: 2, Quantity: 1}}}
	req.From.PostalCode = "01310-100"
	req.To.PostalCode = "70040-010"
	return req
}

func TestCarrierQuoteMapsAndFilters(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/me/shipment/calculate", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		// Mélange typique : prix en chaîne, service indisponible, prix nul
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":1,"name":"PAC","price":"28.90","delivery_days":8,"company":{"name":"CORREIOS"}},
			{"id":2,"name":"SEDEX","price":42.50,"delivery_days":0,"company":{"name":"SEDEX"}},
			{"id":3,"name":"EXPRESS","company":{"name":"LOGGI"},"error":"indisponível para o CEP"},
			{"id":4,"name":"GRATIS","price":"0","delivery_days":1,"company":{"name":"JADLOG"}}
		]`))
	}))
	defer server.Close()

	client := NewCarrierClient(server.URL, "tok", 5*time.Second)
	options, err := client.Quote(context.Background(), quoteRequest())
	require.NoError(t, err)

	// Les services en erreur ou à prix nul sont écartés à la frontière
	require.Len(t, options, 2)
	assert.Equal(t, "CORREIOS", options[0].Carrier)
	assert.Equal(t, 28.90, options[0].Price)
	assert.Equal(t, models.ShippingSourceCarrier, options[0].Source)

	// delivery_days absent : délai par défaut du transporteur
	assert.Equal(t, 3, options[1].DeliveryDays)
}

func TestCarrierQuoteServerRejection(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewCarrierClient(server.URL, "", 5*time.Second)
	_, err := client.Quote(context.Background(), quoteRequest())

	var unavailable *ShippingUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.False(t, unavailable.Timeout)
	assert.Equal(t, http.StatusUnprocessableEntity, unavailable.Status)
}

func TestCarrierQuoteTimeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewCarrierClient(server.URL, "", 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Quote(ctx, quoteRequest())

	// Le timeout est distingué du rejet serveur
	var unavailable *ShippingUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.True(t, unavailable.Timeout)
}

func TestCarrierQuoteUnreadablePayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`pas du json`))
	}))
	defer server.Close()

	client := NewCarrierClient(server.URL, "", 5*time.Second)
	_, err := client.Quote(context.Background(), quoteRequest())
	assert.True(t, IsShippingUnavailable(err))
}
