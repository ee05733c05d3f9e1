package utils

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPixPayload(t *testing.T) {
	t.Parallel()

	payload := buildPixPayload("pix@farmavida.com.br", "FARMAVIDA", "SAO PAULO", "pi_123", 145.81)

	// Structure EMV : indicateur de format, clé PIX, devise BRL, montant
	assert.True(t, strings.HasPrefix(payload, "000201"))
	assert.Contains(t, payload, "br.gov.bcb.pix")
	assert.Contains(t, payload, "5303986")
	assert.Contains(t, payload, "5406145.81")
	assert.Contains(t, payload, "5909FARMAVIDA")

	// Le CRC final couvre tout le payload y compris le tag 6304
	require.Greater(t, len(payload), 8)
	body := payload[:len(payload)-4]
	assert.True(t, strings.HasSuffix(body, "6304"))
	assert.Equal(t, fmt.Sprintf("%04X", crc16CCITT(body)), payload[len(payload)-4:])

	// Déterministe : même entrée, même payload
	assert.Equal(t, payload, buildPixPayload("pix@farmavida.com.br", "FARMAVIDA", "SAO PAULO", "pi_123", 145.81))
}

func TestGeneratePixQR(t *testing.T) {
	t.Parallel()

	qr, err := GeneratePixQR("pix@farmavida.com.br", "FARMAVIDA", "SAO PAULO", "pi_123", 39.90)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(qr, "data:image/png;base64,"))
}
