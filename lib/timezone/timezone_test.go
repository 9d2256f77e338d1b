package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNow(t *testing.T) {
	now := Now()
	require.Equal(t, Location, now.Location())
	require.WithinDuration(t, time.Now(), now, time.Second)
}
