package recurrence

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/schedkeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedKeys(t *testing.T) {
	list := []models.Schedule{
		*newSchedule("https://a", []int{0, 1, 0, 1, 0, 0, 0}, true),
		*newSchedule("https://b", []int{1, 0, 0, 0, 0, 0, 0}, false),
	}
	keys := ExpectedKeys(list)
	assert.Equal(t, 2, keys.Cardinality())
	assert.True(t, keys.Contains("https://a weekDay:1", "https://a weekDay:3"))
}

func TestDrift(t *testing.T) {
	s, rec := newTestScheduler()
	ctx := context.Background()

	a := newSchedule("https://a", []int{0, 1, 0, 1, 0, 0, 0}, true)
	require.NoError(t, s.Register(ctx, a))

	d, err := s.Drift(ctx, []models.Schedule{*a})
	require.NoError(t, err)
	assert.True(t, d.Empty())

	require.NoError(t, rec.CreateTrigger(ctx, "https://orphan weekDay:0", time.Now(), Period))
	require.NoError(t, rec.CancelTrigger(ctx, "https://a weekDay:3"))

	d, err = s.Drift(ctx, []models.Schedule{*a})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a weekDay:3"}, d.Missing)
	assert.Equal(t, []string{"https://orphan weekDay:0"}, d.Stale)
	assert.False(t, d.Empty())
}
