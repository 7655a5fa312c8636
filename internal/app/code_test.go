package app

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/extranet-bot/internal/service/authcode"
)

// TestWriteCurrentCode tests printing the current code.
func TestWriteCurrentCode(t *testing.T) {
	t.Parallel()

	const secret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

	var buf bytes.Buffer
	require.NoError(t, WriteCurrentCode(&buf, secret, time.Unix(59, 0)))
	assert.Equal(t, "287082 (valid for 1s)\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteCurrentCode(&buf, secret, time.Unix(30, 0)))
	assert.Equal(t, "287082 (valid for 30s)\n", buf.String())

	require.ErrorIs(t, WriteCurrentCode(&buf, "", time.Unix(59, 0)), ErrNoSecret)
	require.ErrorIs(t, WriteCurrentCode(&buf, "not base32!", time.Unix(59, 0)), authcode.ErrInvalidSecret)
}
