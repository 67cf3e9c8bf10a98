package qrcode

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G'}

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		errorCorrectionLevel string
	}{
		{"Low error correction", "L"},
		{"Medium error correction", "M"},
		{"High error correction", "Q"},
		{"Highest error correction", "H"},
		{"Default error correction", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewQRCodeService(256, tt.errorCorrectionLevel, "https://care.example.com")
			require.NotNil(t, svc)

			png, err := svc.GenerateActivationQR("12345678901234567890")
			assert.NoError(t, err)
			assert.True(t, bytes.HasPrefix(png, pngSignature), "expected PNG output")
		})
	}
}

func TestQRCodeService_GenerateActivationQR_EscapesKey(t *testing.T) {
	svc := NewQRCodeService(128, "M", "https://care.example.com")

	png, err := svc.GenerateActivationQR("key with spaces&chars")
	assert.NoError(t, err)
	assert.NotEmpty(t, png)
}
