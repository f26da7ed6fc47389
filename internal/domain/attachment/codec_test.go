package attachment_test

import (
	"testing"

	"github.com/agencyops/backoffice/internal/domain/attachment"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload := []byte("contrato assinado %PDF-1.7 \x00\x01\x02")

	att := attachment.Encode("contrato.pdf", "application/pdf", payload)
	require.Equal(t, "contrato.pdf", att.Name)
	require.Equal(t, "application/pdf", att.Type)
	require.Equal(t, int64(len(payload)), att.Size)
	require.Contains(t, att.Data, "data:application/pdf;base64,")

	decoded, err := att.Bytes()
	require.NoError(t, err)
	require.Equal(t, payload, decoded)
}

func TestEncodeDefaultsMIMEType(t *testing.T) {
	att := attachment.Encode("blob", "", []byte{0xde, 0xad})
	require.Equal(t, "application/octet-stream", att.Type)
	require.Equal(t, "application/octet-stream", att.MIMEType())
}

func TestEncodeEmptyPayload(t *testing.T) {
	att := attachment.Encode("vazio.txt", "text/plain", nil)
	require.Zero(t, att.Size)

	decoded, err := att.Bytes()
	require.NoError(t, err)
	require.Empty(t, decoded)
}

func TestBytesMalformed(t *testing.T) {
	cases := map[string]string{
		"no prefix":     "application/pdf;base64,AAAA",
		"no comma":      "data:application/pdf;base64",
		"not base64":    "data:text/plain;base64,%%%",
		"wrong marker":  "data:text/plain;hex,deadbeef",
		"empty payload": "",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			att := attachment.Attachment{Name: "x", Type: "text/plain", Data: data}
			_, err := att.Bytes()
			require.ErrorIs(t, err, attachment.ErrMalformedData)
		})
	}
}

func TestMIMETypePrefersDataURI(t *testing.T) {
	att := attachment.Encode("foto.png", "image/png", []byte{1, 2, 3})
	att.Type = "application/octet-stream"
	require.Equal(t, "image/png", att.MIMEType())
}
