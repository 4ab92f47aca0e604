package nfc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeURI_ShortRecord(t *testing.T) {
	msg, err := EncodeURI("https://example.com/p/abc")
	require.NoError(t, err)

	want := append([]byte{0xD1, 0x01, 18, 'U', 0x04}, "example.com/p/abc"...)
	assert.Equal(t, want, msg)
}

func TestEncodeURI_Prefixes(t *testing.T) {
	cases := []struct {
		uri  string
		code byte
	}{
		{"https://www.pet.it/x", 0x02},
		{"http://www.pet.it", 0x01},
		{"http://pet.it", 0x03},
		{"tel:+393471234567", 0x05},
		{"mailto:a@b.it", 0x06},
		{"urn:nfc:sn:1", 0x23},
		{"foo:bar", 0x00},
	}
	for _, tc := range cases {
		msg, err := EncodeURI(tc.uri)
		require.NoError(t, err, tc.uri)
		assert.Equal(t, tc.code, msg[4], tc.uri)

		got, err := DecodeURIs(msg)
		require.NoError(t, err)
		assert.Equal(t, []string{tc.uri}, got)
	}
}

func TestEncodeURI_LongRecord(t *testing.T) {
	uri := "https://example.com/" + strings.Repeat("a", 300)
	msg, err := EncodeURI(uri)
	require.NoError(t, err)
	assert.Equal(t, byte(0xC1), msg[0])

	got, err := DecodeURIs(msg)
	require.NoError(t, err)
	assert.Equal(t, []string{uri}, got)
}

func TestEncodeURI_Empty(t *testing.T) {
	_, err := EncodeURI("  ")
	assert.Error(t, err)
}

func TestParseMessage_MixedRecords(t *testing.T) {
	msg := []byte{0x91, 0x01, 0x03, 'T', 0x02, 'e', 'n'}
	msg = append(msg, 0x51, 0x01, 0x07, 'U', 0x03, 'a', '.', 'i', 't', '/', 'x')

	recs, err := ParseMessage(msg)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "T", string(recs[0].Type))

	uris, err := DecodeURIs(msg)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.it/x"}, uris)
}

func TestParseMessage_Malformed(t *testing.T) {
	_, err := ParseMessage([]byte{0xD1, 0x01, 0x20, 'U', 0x04})
	assert.ErrorIs(t, err, ErrMalformedNDEF)

	_, err = ParseMessage([]byte{0xB1, 0x01, 0x01, 'U', 0x04})
	assert.ErrorIs(t, err, ErrMalformedNDEF)

	_, err = ParseMessage([]byte{0xD1})
	assert.ErrorIs(t, err, ErrMalformedNDEF)
}

func TestParseMessage_EmptyRecord(t *testing.T) {
	recs, err := ParseMessage([]byte{0xD0, 0x00, 0x00})
	require.NoError(t, err)
	assert.Empty(t, recs)
}
