package database_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"edugame/backend/internal/database"
	"edugame/backend/internal/database/dbtest"
	"edugame/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createLobby(t *testing.T, store *database.LobbyStore, owner uint, kind string, max int) *models.Lobby {
	t.Helper()
	lobby := &models.Lobby{OwnerID: owner, Title: "Fractions", GameKind: kind, MaxParticipants: max}
	require.NoError(t, store.Create(context.Background(), lobby))
	return lobby
}

func TestGenerateJoinCodeFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^[ABCDEFGHJKMNPQRSTUVWXYZ23456789]{6}$`)
	for i := 0; i < 100; i++ {
		code, err := database.GenerateJoinCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestLobbyStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	lobbies := database.NewLobbyStore(dbtest.Open(t))

	lobby := createLobby(t, lobbies, 1, "quiz", 5)
	assert.NotZero(t, lobby.ID)
	assert.Len(t, lobby.JoinCode, 6)
	assert.Equal(t, models.LobbyStatusActive, lobby.Status)

	byCode, err := lobbies.GetByCode(ctx, lobby.JoinCode)
	require.NoError(t, err)
	assert.Equal(t, lobby.ID, byCode.ID)

	updated, err := lobbies.UpdateStatus(ctx, lobby.ID, models.LobbyStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.LobbyStatusCompleted, updated.Status)

	_, err = lobbies.UpdateStatus(ctx, 9999, models.LobbyStatusCompleted)
	assert.ErrorIs(t, err, database.ErrLobbyNotFound)

	_, err = lobbies.Get(ctx, 9999)
	assert.ErrorIs(t, err, database.ErrLobbyNotFound)
	_, err = lobbies.GetByCode(ctx, "NOPE00")
	assert.ErrorIs(t, err, database.ErrLobbyNotFound)
}

func fixedCodes(codes ...string) func() (string, error) {
	var mu sync.Mutex
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		code := codes[0]
		if len(codes) > 1 {
			codes = codes[1:]
		}
		return code, nil
	}
}

func TestLobbyCreateRetriesTakenCode(t *testing.T) {
	ctx := context.Background()
	lobbies := database.NewLobbyStore(dbtest.Open(t)).WithCodeGenerator(fixedCodes("AAAAAA", "AAAAAA", "BBBBBB"))

	first := createLobby(t, lobbies, 1, "quiz", 5)
	assert.Equal(t, "AAAAAA", first.JoinCode)

	second := createLobby(t, lobbies, 1, "quiz", 5)
	assert.Equal(t, "BBBBBB", second.JoinCode)
	assert.NotEqual(t, first.ID, second.ID)

	byCode, err := lobbies.GetByCode(ctx, "AAAAAA")
	require.NoError(t, err)
	assert.Equal(t, first.ID, byCode.ID)
}

func TestLobbyCreateGivesUpOnCollisions(t *testing.T) {
	lobbies := database.NewLobbyStore(dbtest.Open(t)).WithCodeGenerator(fixedCodes("AAAAAA"))
	createLobby(t, lobbies, 1, "quiz", 5)

	lobby := &models.Lobby{OwnerID: 1, Title: "Again", GameKind: "quiz", MaxParticipants: 5}
	err := lobbies.Create(context.Background(), lobby)
	assert.ErrorIs(t, err, database.ErrJoinCodeExhausted)
	assert.Zero(t, lobby.ID)
}

func TestLobbyStoreListByOwner(t *testing.T) {
	ctx := context.Background()
	lobbies := database.NewLobbyStore(dbtest.Open(t))

	for i := 0; i < 3; i++ {
		createLobby(t, lobbies, 7, "quiz", 5)
	}
	createLobby(t, lobbies, 8, "quiz", 5)

	page, total, err := lobbies.ListByOwner(ctx, 7, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page, 2)

	page, _, err = lobbies.ListByOwner(ctx, 7, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestLobbyDeleteCascades(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	lobbies := database.NewLobbyStore(db)
	participants := database.NewParticipantStore(db)
	scores := database.NewScoreStore(db)

	doomed := createLobby(t, lobbies, 1, "quiz", 5)
	kept := createLobby(t, lobbies, 1, "quiz", 5)

	for _, l := range []*models.Lobby{doomed, kept} {
		_, err := participants.Join(ctx, l.ID, 42)
		require.NoError(t, err)
		_, err = scores.Submit(ctx, l.ID, 42, 10, nil)
		require.NoError(t, err)
	}

	require.NoError(t, lobbies.Delete(ctx, doomed.ID))
	assert.ErrorIs(t, lobbies.Delete(ctx, doomed.ID), database.ErrLobbyNotFound)

	rows, err := scores.ListByLobby(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
	_, err = participants.Get(ctx, doomed.ID, 42)
	assert.ErrorIs(t, err, database.ErrParticipantNotFound)

	rows, err = scores.ListByLobby(ctx, kept.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestJoinIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	lobby := createLobby(t, database.NewLobbyStore(db), 1, "quiz", 5)
	participants := database.NewParticipantStore(db)

	first, err := participants.Join(ctx, lobby.ID, 42)
	require.NoError(t, err)
	second, err := participants.Join(ctx, lobby.ID, 42)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	list, err := participants.List(ctx, lobby.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.False(t, list[0].IsReady)
}

func TestConcurrentJoinCreatesOneRow(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	lobby := createLobby(t, database.NewLobbyStore(db), 1, "quiz", 5)
	participants := database.NewParticipantStore(db)

	var wg sync.WaitGroup
	ids := make([]uint, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := participants.Join(ctx, lobby.ID, 42)
			if assert.NoError(t, err) {
				ids[i] = p.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	list, err := participants.List(ctx, lobby.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestConcurrentJoinRespectsCapacity(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	lobby := createLobby(t, database.NewLobbyStore(db), 1, "quiz", 3)
	participants := database.NewParticipantStore(db)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		joined int
		full   int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := participants.Join(ctx, lobby.ID, userID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				joined++
			case errors.Is(err, database.ErrLobbyFull):
				full++
			default:
				t.Errorf("join user %d: %v", userID, err)
			}
		}(uint(100 + i))
	}
	wg.Wait()

	assert.Equal(t, 3, joined)
	assert.Equal(t, 7, full)
	list, err := participants.List(ctx, lobby.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestJoinRefusals(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	lobbies := database.NewLobbyStore(db)
	participants := database.NewParticipantStore(db)

	_, err := participants.Join(ctx, 9999, 1)
	assert.ErrorIs(t, err, database.ErrLobbyNotFound)

	small := createLobby(t, lobbies, 1, "quiz", 1)
	_, err = participants.Join(ctx, small.ID, 10)
	require.NoError(t, err)
	_, err = participants.Join(ctx, small.ID, 11)
	assert.ErrorIs(t, err, database.ErrLobbyFull)
	_, err = participants.Join(ctx, small.ID, 10)
	assert.NoError(t, err, "existing member rejoins a full lobby")

	done := createLobby(t, lobbies, 1, "quiz", 5)
	_, err = lobbies.UpdateStatus(ctx, done.ID, models.LobbyStatusCompleted)
	require.NoError(t, err)
	_, err = participants.Join(ctx, done.ID, 10)
	assert.ErrorIs(t, err, database.ErrLobbyClosed)
}

func TestAllReady(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	lobby := createLobby(t, database.NewLobbyStore(db), 1, "quiz", 5)
	participants := database.NewParticipantStore(db)

	ready, err := participants.AllReady(ctx, lobby.ID)
	require.NoError(t, err)
	assert.False(t, ready, "empty lobby is never all-ready")

	_, err = participants.Join(ctx, lobby.ID, 1)
	require.NoError(t, err)
	_, err = participants.Join(ctx, lobby.ID, 2)
	require.NoError(t, err)

	p, err := participants.SetReady(ctx, lobby.ID, 1, true)
	require.NoError(t, err)
	assert.True(t, p.IsReady)

	ready, err = participants.AllReady(ctx, lobby.ID)
	require.NoError(t, err)
	assert.False(t, ready)

	_, err = participants.SetReady(ctx, lobby.ID, 2, true)
	require.NoError(t, err)
	ready, err = participants.AllReady(ctx, lobby.ID)
	require.NoError(t, err)
	assert.True(t, ready)

	total, readyCount, err := participants.Counts(ctx, lobby.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.EqualValues(t, 2, readyCount)
}

func TestSetReadyUnknownParticipant(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	lobby := createLobby(t, database.NewLobbyStore(db), 1, "quiz", 5)
	participants := database.NewParticipantStore(db)

	_, err := participants.SetReady(ctx, lobby.ID, 77, true)
	assert.ErrorIs(t, err, database.ErrParticipantNotFound)
}

func TestRemoveParticipant(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	lobbies := database.NewLobbyStore(db)
	a := createLobby(t, lobbies, 1, "quiz", 5)
	b := createLobby(t, lobbies, 1, "quiz", 5)
	participants := database.NewParticipantStore(db)

	p, err := participants.Join(ctx, a.ID, 5)
	require.NoError(t, err)

	_, err = participants.Remove(ctx, b.ID, p.ID)
	assert.ErrorIs(t, err, database.ErrParticipantNotFound)

	removed, err := participants.Remove(ctx, a.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, removed.ID)
	assert.EqualValues(t, 5, removed.UserID)

	_, err = participants.Remove(ctx, a.ID, p.ID)
	assert.ErrorIs(t, err, database.ErrParticipantNotFound)

	member, err := participants.IsMember(ctx, a.ID, 5)
	require.NoError(t, err)
	assert.False(t, member)
}

func TestScoreStore(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	lobbies := database.NewLobbyStore(db)
	quiz := createLobby(t, lobbies, 1, "quiz", 5)
	puzzle := createLobby(t, lobbies, 1, "puzzle", 5)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tick := base
	scores := database.NewScoreStore(db).WithClock(func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	})

	secs := 12.5
	first, err := scores.Submit(ctx, quiz.ID, 1, 90, &secs)
	require.NoError(t, err)
	assert.Equal(t, base.Add(time.Minute), first.SubmittedAt)
	require.NotNil(t, first.CompletionTime)
	assert.InDelta(t, 12.5, *first.CompletionTime, 0.001)

	_, err = scores.Submit(ctx, quiz.ID, 1, 90, nil)
	require.NoError(t, err)
	_, err = scores.Submit(ctx, quiz.ID, 1, 40, nil)
	require.NoError(t, err)
	_, err = scores.Submit(ctx, puzzle.ID, 2, 70, nil)
	require.NoError(t, err)

	best, err := scores.Best(ctx, quiz.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, best.ID, "tie on score goes to the earlier submission")

	_, err = scores.Best(ctx, quiz.ID, 2)
	assert.ErrorIs(t, err, database.ErrScoreNotFound)

	rows, err := scores.ListByLobby(ctx, quiz.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = scores.ListByGameKind(ctx, "puzzle")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 2, rows[0].UserID)

	require.NoError(t, scores.Delete(ctx, first.ID))
	assert.ErrorIs(t, scores.Delete(ctx, first.ID), database.ErrScoreNotFound)
	_, err = scores.Get(ctx, first.ID)
	assert.ErrorIs(t, err, database.ErrScoreNotFound)

	rows, err = scores.ListByLobby(ctx, quiz.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
