//go:build integration

package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/niklvrr/issuetracker/internal/domain"
	"github.com/niklvrr/issuetracker/internal/infrastructure/models/dto"
	"github.com/niklvrr/issuetracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testPG *testutil.Postgres

func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	testPG, err = testutil.StartPostgres(ctx)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	if err := testPG.Close(ctx); err != nil {
		panic(fmt.Sprintf("failed to terminate container: %v", err))
	}
	os.Exit(code)
}

func newTestStorage(t *testing.T) *PgStorage {
	t.Helper()
	require.NoError(t, testPG.Truncate(context.Background()))
	return NewPgStorage(testPG.Pool, zap.NewNop())
}

func createTestIssue(t *testing.T, st *PgStorage, title string) *domain.Issue {
	t.Helper()
	issue, err := st.Stores().Issues().Create(context.Background(), &dto.CreateIssueDTO{
		Title:     title,
		Priority:  domain.PriorityMedium,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return issue
}

func TestIssueRepository_UpdateVersioned_SingleWinner(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()
	issue := createTestIssue(t, st, "Concurrent target")

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		stale     int
	)
	start := make(chan struct{})
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			<-start
			err := st.WithTx(ctx, func(s StoreProvider) error {
				next := *issue
				next.Title = fmt.Sprintf("Writer number %d", n)
				next.UpdatedAt = time.Now().UTC()
				_, err := s.Issues().UpdateVersioned(ctx, &next, 1)
				return err
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrStaleVersion):
				stale++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, writers-1, stale)

	stored, err := st.Stores().Issues().GetByID(ctx, issue.Id)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Version)
}

func TestIssueRepository_BulkLockBlocksVersionedUpdate(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()
	issue := createTestIssue(t, st, "Locked by bulk")

	updateDone := make(chan error, 1)
	err := st.WithTx(ctx, func(s StoreProvider) error {
		locked, err := s.Issues().LockByIDs(ctx, []int64{issue.Id})
		if err != nil {
			return err
		}
		require.Len(t, locked, 1)

		go func() {
			updateDone <- st.WithTx(ctx, func(s StoreProvider) error {
				next := *issue
				next.Title = "Single writer title"
				_, err := s.Issues().UpdateVersioned(ctx, &next, 1)
				return err
			})
		}()

		// Одиночное обновление ждёт снятия блокировки
		select {
		case err := <-updateDone:
			t.Fatalf("versioned update finished while row was locked: %v", err)
		case <-time.After(300 * time.Millisecond):
		}

		locked[0].Status = domain.StatusInProgress
		locked[0].UpdatedAt = time.Now().UTC()
		_, err = s.Issues().ApplyStatus(ctx, locked)
		return err
	})
	require.NoError(t, err)

	select {
	case err := <-updateDone:
		assert.ErrorIs(t, err, ErrStaleVersion)
	case <-time.After(5 * time.Second):
		t.Fatal("versioned update never finished")
	}

	stored, err := st.Stores().Issues().GetByID(ctx, issue.Id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, stored.Status)
	assert.Equal(t, "Locked by bulk", stored.Title)
	assert.Equal(t, 2, stored.Version)
}

func TestIssueRepository_ApplyStatus_RollbackLeavesNoTrace(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()
	a := createTestIssue(t, st, "First in batch")
	b := createTestIssue(t, st, "Second in batch")

	boom := errors.New("abort after apply")
	err := st.WithTx(ctx, func(s StoreProvider) error {
		locked, err := s.Issues().LockByIDs(ctx, []int64{b.Id, a.Id})
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		for _, issue := range locked {
			issue.SetStatus(domain.StatusResolved, now)
			issue.UpdatedAt = now
		}
		n, err := s.Issues().ApplyStatus(ctx, locked)
		require.NoError(t, err)
		require.Equal(t, 2, n)
		assert.Equal(t, a.Id, locked[0].Id, "locks are taken in id order")
		assert.Equal(t, 2, locked[0].Version)
		return boom
	})
	require.ErrorIs(t, err, boom)

	for _, id := range []int64{a.Id, b.Id} {
		stored, err := st.Stores().Issues().GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusOpen, stored.Status)
		assert.Equal(t, 1, stored.Version)
		assert.Nil(t, stored.ResolvedAt)
	}
}

func TestIssueRepository_ResolvedRequiresTimestamp(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()
	issue := createTestIssue(t, st, "Constraint check")

	next := *issue
	next.Status = domain.StatusResolved
	next.ResolvedAt = nil
	_, err := st.Stores().Issues().UpdateVersioned(ctx, &next, 1)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.True(t, IsConstraintViolation(err))
}

func TestLabelRepository_GetOrCreate_Concurrent(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	const callers = 10
	ids := make([]int64, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			label, err := st.Stores().Labels().GetOrCreate(ctx, "race")
			if assert.NoError(t, err) {
				ids[i] = label.Id
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	labels, err := st.Stores().Labels().List(ctx)
	require.NoError(t, err)
	assert.Len(t, labels, 1)
}

func TestCascades(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()
	issue := createTestIssue(t, st, "Soon to be deleted")

	user, err := st.Stores().Users().Create(ctx, &dto.CreateUserDTO{
		Username:     "cascade",
		Email:        "cascade@example.com",
		PasswordHash: "x",
	})
	require.NoError(t, err)

	label, err := st.Stores().Labels().GetOrCreate(ctx, "bug")
	require.NoError(t, err)
	require.NoError(t, st.Stores().Labels().ReplaceForIssue(ctx, issue.Id, []int64{label.Id}))
	require.NoError(t, st.Stores().Events().Append(ctx, &domain.IssueEvent{
		IssueId:   issue.Id,
		EventType: domain.EventLabelsUpdated,
		CreatedAt: time.Now().UTC(),
	}))
	_, err = st.Stores().Comments().Create(ctx, &dto.CreateCommentDTO{
		IssueId:   issue.Id,
		AuthorId:  user.Id,
		Content:   "going away",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	_, err = testPG.Pool.Exec(ctx, `DELETE FROM issues WHERE id = $1`, issue.Id)
	require.NoError(t, err)

	var joins, events, comments int
	require.NoError(t, testPG.Pool.QueryRow(ctx, `SELECT count(*) FROM issue_labels`).Scan(&joins))
	require.NoError(t, testPG.Pool.QueryRow(ctx, `SELECT count(*) FROM issue_events`).Scan(&events))
	require.NoError(t, testPG.Pool.QueryRow(ctx, `SELECT count(*) FROM comments`).Scan(&comments))
	assert.Zero(t, joins)
	assert.Zero(t, events)
	assert.Zero(t, comments)

	// Сама метка переживает удаление задачи
	_, err = st.Stores().Labels().GetByName(ctx, "bug")
	assert.NoError(t, err)
}

func TestUserRepository_Duplicate(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	d := &dto.CreateUserDTO{Username: "dup", Email: "dup@example.com", PasswordHash: "x"}
	_, err := st.Stores().Users().Create(ctx, d)
	require.NoError(t, err)

	_, err = st.Stores().Users().Create(ctx, d)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	exists, err := st.Stores().Users().Exists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, exists)
}
