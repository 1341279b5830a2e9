package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	sortDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 6, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(sortDate, createdAt)
	assert.NotEmpty(t, token)

	decodedDate, decodedCreatedAt, err := DecodeToken(token)
	assert.NoError(t, err)
	assert.Equal(t, sortDate, decodedDate)
	assert.Equal(t, createdAt, decodedCreatedAt)

	// Zero times must round-trip too: a cursor built from an unset column
	// should not error on the way back in.
	zero := time.Time{}
	decodedDate, decodedCreatedAt, err = DecodeToken(EncodeToken(zero, zero))
	assert.NoError(t, err)
	assert.Equal(t, zero, decodedDate)
	assert.Equal(t, zero, decodedCreatedAt)

	now := time.Now().UTC()
	decodedDate, decodedCreatedAt, err = DecodeToken(EncodeToken(now, now))
	assert.NoError(t, err)
	assert.True(t, now.Equal(decodedDate))
	assert.True(t, now.Equal(decodedCreatedAt))
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	// Valid base64 holding a single date, no separator.
	_, _, err = DecodeToken("MjAyMy0wNS0xNVQwMDowMDowMFo=")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "separator")

	// Base64 of "notadate|2023-05-15T14:30:45.123456789Z".
	_, _, err = DecodeToken("bm90YWRhdGV8MjAyMy0wNS0xNVQxNDozMDo0NS4xMjM0NTY3ODla")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sort date parse")
}

func TestEncodeDecodeDateBasedToken(t *testing.T) {
	testDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	decoded, err := DecodeDateBasedToken(EncodeDateBasedToken(testDate))
	assert.NoError(t, err)
	assert.Equal(t, testDate, decoded)

	now := time.Now().UTC()
	decoded, err = DecodeDateBasedToken(EncodeDateBasedToken(now))
	assert.NoError(t, err)
	assert.True(t, now.Equal(decoded))

	_, err = DecodeDateBasedToken("%%%")
	assert.Error(t, err)
}
