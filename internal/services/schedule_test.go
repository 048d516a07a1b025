package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/schedkeeper/internal/common"
	"github.com/dmitrijs2005/schedkeeper/internal/models"
	"github.com/dmitrijs2005/schedkeeper/internal/recurrence"
	"github.com/dmitrijs2005/schedkeeper/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedIn(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t)
	h.signUp(t, "a@b.com")
	return h
}

func TestCreate_WritesAllThreeStores(t *testing.T) {
	h := signedIn(t)
	ctx := context.Background()

	in := newSchedule("https://a", 9, 30, 3)
	in.ID = "ignored"
	got, err := h.schedules.Create(ctx, in)
	require.NoError(t, err)

	assert.NotEqual(t, "ignored", got.ID)
	assert.NotEmpty(t, got.OwnerID)
	assert.Equal(t, "ignored", in.ID, "input is not modified")
	assert.Equal(t, 1, h.store.Len(remote.Collection))

	l, err := h.schedules.List(ctx)
	require.NoError(t, err)
	require.Len(t, l.Schedules, 1)
	assert.Equal(t, got.ID, l.Schedules[0].ID)

	tr, ok := h.timers.Get("https://a weekDay:3")
	require.True(t, ok)
	assert.Equal(t, recurrence.Period, tr.Period)
	// Today's 09:30 has already passed; the timer service fires it on start.
	assert.Equal(t, wednesday.Add(-30*time.Minute), tr.FirstFire)
}

func TestCreate_RemoteFailureLeavesLocalStateAlone(t *testing.T) {
	h := signedIn(t)
	h.store.Fail = func(op, _ string) error {
		if op == "insert" {
			return errors.New("quota exceeded")
		}
		return nil
	}

	_, err := h.schedules.Create(context.Background(), newSchedule("https://a", 9, 0, 1))
	require.ErrorIs(t, err, common.ErrRemoteUnavailable)
	assert.Equal(t, 0, h.kv.Len())
	assert.Empty(t, h.keys(t))
}

func TestCreate_Invalid(t *testing.T) {
	h := signedIn(t)
	ctx := context.Background()

	_, err := h.schedules.Create(ctx, nil)
	require.ErrorIs(t, err, common.ErrTypeMismatch)

	bad := newSchedule("https://a", 9, 0, 1)
	bad.Days = []int{1}
	_, err = h.schedules.Create(ctx, bad)
	require.ErrorIs(t, err, common.ErrTypeMismatch)
	assert.Equal(t, 0, h.store.Len(remote.Collection))
}

func TestEdit_MovesTriggersAndKeepsOwner(t *testing.T) {
	h := signedIn(t)
	ctx := context.Background()

	created, err := h.schedules.Create(ctx, newSchedule("https://a", 9, 0, 1, 2))
	require.NoError(t, err)

	change := created.Clone()
	change.OwnerID = "someone-else"
	change.Days = []int{0, 0, 1, 0, 0, 1, 0}
	got, err := h.schedules.Edit(ctx, change)
	require.NoError(t, err)

	assert.Equal(t, created.OwnerID, got.OwnerID)
	assert.Equal(t, []string{"https://a weekDay:2", "https://a weekDay:5"}, h.keys(t))

	docs, err := h.store.Query(ctx, remote.Collection, remote.Filter{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	stored, err := models.Decode(docs[0].Body)
	require.NoError(t, err)
	assert.Equal(t, change.Days, stored.Days)
	assert.Equal(t, created.OwnerID, stored.OwnerID)
}

func TestEdit_UnknownID(t *testing.T) {
	h := signedIn(t)
	s := newSchedule("https://a", 9, 0, 1)
	s.ID = "missing"

	_, err := h.schedules.Edit(context.Background(), s)
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = h.schedules.Edit(context.Background(), nil)
	require.ErrorIs(t, err, common.ErrTypeMismatch)
}

func TestDelete(t *testing.T) {
	h := signedIn(t)
	ctx := context.Background()

	keep, err := h.schedules.Create(ctx, newSchedule("https://keep", 8, 0, 4))
	require.NoError(t, err)
	drop, err := h.schedules.Create(ctx, newSchedule("https://drop", 9, 0, 1, 4))
	require.NoError(t, err)

	require.NoError(t, h.schedules.Delete(ctx, drop.ID))

	assert.Equal(t, []string{"https://keep weekDay:4"}, h.keys(t))
	assert.Equal(t, 1, h.store.Len(remote.Collection))
	l, err := h.schedules.List(ctx)
	require.NoError(t, err)
	require.Len(t, l.Schedules, 1)
	assert.Equal(t, keep.ID, l.Schedules[0].ID)

	require.ErrorIs(t, h.schedules.Delete(ctx, drop.ID), common.ErrorNotFound)
}

func TestDelete_ToleratesMissingRemoteDocument(t *testing.T) {
	h := signedIn(t)
	ctx := context.Background()

	s, err := h.schedules.Create(ctx, newSchedule("https://a", 9, 0, 1))
	require.NoError(t, err)
	require.NoError(t, h.store.Delete(ctx, remote.Collection, s.ID))

	require.NoError(t, h.schedules.Delete(ctx, s.ID))
	assert.Equal(t, 0, h.kv.Len())
	assert.Empty(t, h.keys(t))
}

func TestDelete_RemoteFailureKeepsEverything(t *testing.T) {
	h := signedIn(t)
	ctx := context.Background()

	s, err := h.schedules.Create(ctx, newSchedule("https://a", 9, 0, 1))
	require.NoError(t, err)
	h.store.Fail = func(op, _ string) error {
		if op == "delete" {
			return errors.New("offline")
		}
		return nil
	}

	require.ErrorIs(t, h.schedules.Delete(ctx, s.ID), common.ErrRemoteUnavailable)
	assert.Equal(t, 1, h.kv.Len())
	assert.Equal(t, []string{"https://a weekDay:1"}, h.keys(t))
}

func TestToggle_TwiceRestores(t *testing.T) {
	h := signedIn(t)
	ctx := context.Background()

	s, err := h.schedules.Create(ctx, newSchedule("https://a", 9, 0, 1, 6))
	require.NoError(t, err)
	before := h.keys(t)

	off, err := h.schedules.Toggle(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, off.Enabled)
	assert.Empty(t, h.keys(t))

	on, err := h.schedules.Toggle(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, on.Enabled)
	assert.Equal(t, before, h.keys(t))

	docs, err := h.store.Query(ctx, remote.Collection, remote.Filter{})
	require.NoError(t, err)
	stored, err := models.Decode(docs[0].Body)
	require.NoError(t, err)
	assert.True(t, stored.Enabled)
}

func TestToggle_RemoteFailure(t *testing.T) {
	h := signedIn(t)
	ctx := context.Background()

	s, err := h.schedules.Create(ctx, newSchedule("https://a", 9, 0, 1))
	require.NoError(t, err)
	h.store.Fail = func(op, _ string) error {
		if op == "update" {
			return errors.New("offline")
		}
		return nil
	}

	_, err = h.schedules.Toggle(ctx, s.ID)
	require.ErrorIs(t, err, common.ErrRemoteUnavailable)

	l, err := h.schedules.List(ctx)
	require.NoError(t, err)
	assert.True(t, l.Schedules[0].Enabled)
	assert.Len(t, h.keys(t), 1)
}

func TestTodayAndListForWeekDay(t *testing.T) {
	h := signedIn(t)
	ctx := context.Background()

	_, err := h.schedules.Create(ctx, newSchedule("https://wed", 9, 0, 3))
	require.NoError(t, err)
	_, err = h.schedules.Create(ctx, newSchedule("https://mon", 9, 0, 1))
	require.NoError(t, err)

	l, err := h.schedules.Today(ctx)
	require.NoError(t, err)
	require.Len(t, l.Schedules, 1)
	assert.Equal(t, "https://wed", l.Schedules[0].URL)

	l, err = h.schedules.ListForWeekDay(ctx, "Monday")
	require.NoError(t, err)
	require.Len(t, l.Schedules, 1)
	assert.Equal(t, "https://mon", l.Schedules[0].URL)

	_, err = h.schedules.ListForWeekDay(ctx, "Someday")
	require.ErrorIs(t, err, common.ErrInvalidWeekDay)
}

func TestCheck_ReportsDrift(t *testing.T) {
	h := signedIn(t)
	ctx := context.Background()

	_, err := h.schedules.Create(ctx, newSchedule("https://a", 9, 0, 1, 3))
	require.NoError(t, err)

	d, err := h.schedules.Check(ctx)
	require.NoError(t, err)
	assert.True(t, d.Empty())

	require.NoError(t, h.timers.CancelTrigger(ctx, "https://a weekDay:3"))
	require.NoError(t, h.timers.CreateTrigger(ctx, "https://stray weekDay:0", wednesday, recurrence.Period))

	d, err = h.schedules.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a weekDay:3"}, d.Missing)
	assert.Equal(t, []string{"https://stray weekDay:0"}, d.Stale)
}

func TestDeleteAll(t *testing.T) {
	h := signedIn(t)
	ctx := context.Background()

	for _, url := range []string{"https://a", "https://b"} {
		_, err := h.schedules.Create(ctx, newSchedule(url, 9, 0, 2))
		require.NoError(t, err)
	}
	foreign := newSchedule("https://other", 9, 0, 2)
	foreign.OwnerID = "another-user"
	body, err := models.EncodeBody(foreign)
	require.NoError(t, err)
	_, err = h.store.Insert(ctx, remote.Collection, body)
	require.NoError(t, err)

	res, err := h.schedules.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Deleted)
	assert.Equal(t, 0, res.Failed)

	assert.Equal(t, 1, h.store.Len(remote.Collection))
	assert.Equal(t, 0, h.kv.Len())
	assert.Empty(t, h.keys(t))
}

func TestResync_PicksUpRemoteChanges(t *testing.T) {
	h := signedIn(t)
	ctx := context.Background()

	s, err := h.schedules.Create(ctx, newSchedule("https://a", 9, 0, 1))
	require.NoError(t, err)

	// Another device adds a day.
	other := s.Clone()
	other.Days[5] = 1
	body, err := models.EncodeBody(other)
	require.NoError(t, err)
	require.NoError(t, h.store.Update(ctx, remote.Collection, s.ID, body))

	n, err := h.schedules.Resync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"https://a weekDay:1", "https://a weekDay:5"}, h.keys(t))
}
