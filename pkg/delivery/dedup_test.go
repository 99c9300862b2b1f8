package delivery_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/notify/pkg/delivery"
)

func TestMemoryDeduper_Claim(t *testing.T) {
	t.Parallel()

	deduper := delivery.NewMemoryDeduper()
	ctx := context.Background()
	key := delivery.DedupKey("payment_due", "student-1")

	ok, err := deduper.Claim(ctx, key, time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = deduper.Claim(ctx, key, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	// Different recipient, independent claim.
	ok, err = deduper.Claim(ctx, delivery.DedupKey("payment_due", "student-2"), time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryDeduper_WindowExpiry(t *testing.T) {
	t.Parallel()

	deduper := delivery.NewMemoryDeduper()
	ctx := context.Background()
	key := delivery.DedupKey("grade_published", "student-1")

	ok, err := deduper.Claim(ctx, key, time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok)

	time.Sleep(5 * time.Millisecond)

	ok, err = deduper.Claim(ctx, key, time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDedupKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "notify:dedup:payment_due:student-1", delivery.DedupKey("payment_due", "student-1"))
}
