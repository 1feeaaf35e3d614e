package client

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumniconnect/alumniconnect/core/job"
)

func jobID(j job.Job) string { return j.ID }

func testJobs(ids ...string) []job.Job {
	out := make([]job.Job, 0, len(ids))
	for _, id := range ids {
		out = append(out, job.Job{ID: id, Status: job.StatusPending})
	}
	return out
}

func TestDedupeByID(t *testing.T) {
	jobs := []job.Job{
		{ID: "a", Title: "first"},
		{ID: "b"},
		{ID: "a", Title: "duplicate"},
		{ID: "c"},
		{ID: "b"},
	}
	got := DedupeByID(jobs, jobID)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
	// the first occurrence wins
	assert.Equal(t, "first", got[0].Title)
}

func TestCollection_dedupesOnConstructionAndReplace(t *testing.T) {
	c := NewCollection(testJobs("a", "a", "b"), jobID)
	assert.Len(t, c.Items(), 2)

	c.Replace(testJobs("x", "y", "x", "z"))
	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "x", items[0].ID)
}

func TestCollection_Mutate(t *testing.T) {
	approve := func(j job.Job) job.Job {
		j.Status = job.StatusApproved
		return j
	}

	t.Run("commit success keeps the patch", func(t *testing.T) {
		c := NewCollection(testJobs("a", "b"), jobID)

		err := c.Mutate(context.Background(), "a", approve, func(context.Context) error { return nil })
		require.NoError(t, err)

		items := c.Items()
		assert.Equal(t, job.StatusApproved, items[0].Status)
		assert.Equal(t, job.StatusPending, items[1].Status)
		assert.False(t, c.InFlight("a"))
	})

	t.Run("commit failure rolls back", func(t *testing.T) {
		c := NewCollection(testJobs("a", "b"), jobID)

		boom := errors.New("backend rejected it")
		var seenOptimistic bool
		err := c.Mutate(context.Background(), "a", approve, func(context.Context) error {
			// the patch is visible while the call is in flight
			seenOptimistic = c.Items()[0].Status == job.StatusApproved
			return boom
		})
		assert.Equal(t, boom, errors.Cause(err))
		assert.True(t, seenOptimistic)
		assert.Equal(t, job.StatusPending, c.Items()[0].Status)
		assert.False(t, c.InFlight("a"))
	})

	t.Run("second mutation on the same item is rejected", func(t *testing.T) {
		c := NewCollection(testJobs("a", "b"), jobID)

		inCommit := make(chan struct{})
		release := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Mutate(context.Background(), "a", approve, func(context.Context) error {
				close(inCommit)
				<-release
				return nil
			})
		}()

		<-inCommit
		assert.True(t, c.InFlight("a"))
		err := c.Mutate(context.Background(), "a", approve, func(context.Context) error { return nil })
		assert.Equal(t, ErrMutationInFlight, errors.Cause(err))

		// an unrelated item stays mutable
		err = c.Mutate(context.Background(), "b", approve, func(context.Context) error { return nil })
		assert.NoError(t, err)

		close(release)
		wg.Wait()
		assert.False(t, c.InFlight("a"))
	})

	t.Run("unknown item", func(t *testing.T) {
		c := NewCollection(testJobs("a"), jobID)
		err := c.Mutate(context.Background(), "nope", approve, func(context.Context) error { return nil })
		assert.Error(t, err)
	})
}

func TestCollection_Remove(t *testing.T) {
	t.Run("commit success drops the item", func(t *testing.T) {
		c := NewCollection(testJobs("a", "b", "c"), jobID)

		err := c.Remove(context.Background(), "b", func(context.Context) error { return nil })
		require.NoError(t, err)

		items := c.Items()
		require.Len(t, items, 2)
		assert.Equal(t, "a", items[0].ID)
		assert.Equal(t, "c", items[1].ID)
	})

	t.Run("commit failure restores the item in place", func(t *testing.T) {
		c := NewCollection(testJobs("a", "b", "c"), jobID)

		var seenOptimistic bool
		err := c.Remove(context.Background(), "b", func(context.Context) error {
			seenOptimistic = len(c.Items()) == 2
			return errors.New("backend rejected it")
		})
		assert.Error(t, err)
		assert.True(t, seenOptimistic)

		items := c.Items()
		require.Len(t, items, 3)
		assert.Equal(t, "b", items[1].ID)
		assert.False(t, c.InFlight("b"))
	})
}

func TestFilterAndPaginate(t *testing.T) {
	jobs := testJobs("a", "b", "c", "d", "e")
	jobs[1].Status = job.StatusApproved
	jobs[3].Status = job.StatusApproved

	approved := func(j job.Job) bool { return j.Status == job.StatusApproved }

	got := Filter(jobs, approved)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "d", got[1].ID)
	// filtering an already-filtered list changes nothing
	assert.Equal(t, got, Filter(got, approved))

	page := Paginate(jobs, 3, 2)
	assert.Equal(t, 3, page.Number)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 5, page.TotalItems)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "e", page.Items[0].ID)
}
