package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRatingRecomputesAggregate(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	a := env.seedUser("alice", false)
	b := env.seedUser("bob", false)
	c := env.seedUser("carol", false)
	x := env.upload(b, "x", "x.png", pngHeader)

	first, err := env.svc.Rating.SubmitRating(ctx, a, x, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Stats.Count)
	assert.InDelta(t, 4.0, first.Stats.Mean, 1e-9)

	second, err := env.svc.Rating.SubmitRating(ctx, a, x, 2)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(1), second.Stats.Count)
	assert.InDelta(t, 2.0, second.Stats.Mean, 1e-9)

	third, err := env.svc.Rating.SubmitRating(ctx, c, x, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), third.Stats.Count)
	assert.InDelta(t, 3.5, third.Stats.Mean, 1e-9)

	stats, err := env.svc.Rating.GetStats(ctx, x)
	require.NoError(t, err)
	assert.Equal(t, third.Stats, *stats)

	mine, err := env.svc.Rating.GetUserRating(ctx, a, x)
	require.NoError(t, err)
	assert.Equal(t, 2, mine.Value)
}

func TestSubmitRatingRejectsOutOfRange(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	a := env.seedUser("alice", false)
	x := env.upload(a, "x", "x.png", pngHeader)
	contentID := uuid.MustParse(x)

	for _, value := range []int{0, 6, -1, 100} {
		t.Run(fmt.Sprint(value), func(t *testing.T) {
			_, err := env.svc.Rating.SubmitRating(ctx, a, x, value)
			assert.ErrorIs(t, err, ErrInvalidRatingValue)
		})
	}

	assert.Zero(t, env.db.ratingRows(contentID))
	stats, err := env.svc.Rating.GetStats(ctx, x)
	require.NoError(t, err)
	assert.Zero(t, stats.Count)
	assert.Zero(t, stats.Mean)
}

func TestSubmitRatingErrors(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	a := env.seedUser("alice", false)

	_, err := env.svc.Rating.SubmitRating(ctx, a, uuid.NewString(), 3)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.Rating.SubmitRating(ctx, a, "not-a-uuid", 3)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.svc.Rating.SubmitRating(ctx, Actor{}, uuid.NewString(), 3)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	x := env.upload(a, "x", "x.png", pngHeader)
	_, err = env.svc.Rating.GetUserRating(ctx, a, x)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitRatingConcurrentUsers(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	owner := env.seedUser("owner", false)
	x := env.upload(owner, "x", "x.png", pngHeader)

	const raters = 25
	var wg sync.WaitGroup
	sum := 0
	for i := 0; i < raters; i++ {
		actor := env.seedUser(fmt.Sprintf("rater%02d", i), false)
		value := i%5 + 1
		sum += value

		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.Rating.SubmitRating(ctx, actor, x, value)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stats, err := env.svc.Rating.GetStats(ctx, x)
	require.NoError(t, err)
	assert.Equal(t, int64(raters), stats.Count)
	assert.InDelta(t, float64(sum)/raters, stats.Mean, 1e-9)
	assert.Equal(t, raters, env.db.ratingRows(uuid.MustParse(x)))
}
