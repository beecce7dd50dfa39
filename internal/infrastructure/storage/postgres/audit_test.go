package postgres

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_CompressRoundTrip(t *testing.T) {
	s, err := NewAuditService(nil)
	require.NoError(t, err)

	small := []byte(`{"status":{"old":"NotStarted","new":"Done"}}`)
	plain, packed, algo := s.compress(small)
	assert.Equal(t, CompressionNone, algo)
	assert.Nil(t, packed)
	assert.Equal(t, small, plain)

	large := bytes.Repeat([]byte(`{"k":"v"},`), 1024)
	plain, packed, algo = s.compress(large)
	assert.Equal(t, CompressionZstd, algo)
	assert.Nil(t, plain)
	assert.Less(t, len(packed), len(large))

	out, err := s.decompress(plain, packed, algo)
	require.NoError(t, err)
	assert.Equal(t, large, out)
}
