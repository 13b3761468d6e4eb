package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flockwood/Offside-Tool/internal/models"
)

func seedUser(t *testing.T, repo UserRepository, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, HashedPassword: "x", IsActive: true}
	require.NoError(t, repo.CreateUser(u))
	return u
}

func TestWatchlistAddIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	players := NewPlayerRepository(db)
	watchlist := NewWatchlistRepository(db)

	user := seedUser(t, users, "fan@example.com")
	player := seedPlayer(t, players, &models.Player{FirstName: "Leo", LastName: "Messi", Position: models.PositionForward})

	require.NoError(t, watchlist.Add(user.ID, player.ID))
	require.NoError(t, watchlist.Add(user.ID, player.ID))

	list, err := watchlist.List(user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestWatchlistRemoveAbsentIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	watchlist := NewWatchlistRepository(db)

	user := seedUser(t, users, "fan@example.com")

	assert.NoError(t, watchlist.Remove(user.ID, 999))
}

func TestWatchlistListPreservesInsertionOrder(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	players := NewPlayerRepository(db)
	watchlist := NewWatchlistRepository(db)

	user := seedUser(t, users, "fan@example.com")
	second := seedPlayer(t, players, &models.Player{FirstName: "Cristiano", LastName: "Ronaldo", Position: models.PositionForward})
	first := seedPlayer(t, players, &models.Player{FirstName: "Leo", LastName: "Messi", Position: models.PositionForward})

	require.NoError(t, watchlist.Add(user.ID, first.ID))
	require.NoError(t, watchlist.Add(user.ID, second.ID))

	list, err := watchlist.List(user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
}

func TestWatchlistCascadesOnPlayerDelete(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	players := NewPlayerRepository(db)
	watchlist := NewWatchlistRepository(db)

	user := seedUser(t, users, "fan@example.com")
	player := seedPlayer(t, players, &models.Player{FirstName: "Leo", LastName: "Messi", Position: models.PositionForward})
	require.NoError(t, watchlist.Add(user.ID, player.ID))

	_, err := players.Delete(player.ID)
	require.NoError(t, err)

	ok, err := watchlist.Contains(user.ID, player.ID)
	require.NoError(t, err)
	assert.False(t, ok, "entry must vanish with the deleted player")

	list, err := watchlist.List(user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 0)
}

func TestWatchlistCascadesOnUserDelete(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	players := NewPlayerRepository(db)
	watchlist := NewWatchlistRepository(db)

	user := seedUser(t, users, "fan@example.com")
	player := seedPlayer(t, players, &models.Player{FirstName: "Leo", LastName: "Messi", Position: models.PositionForward})
	require.NoError(t, watchlist.Add(user.ID, player.ID))

	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)

	ok, err := watchlist.Contains(user.ID, player.ID)
	require.NoError(t, err)
	assert.False(t, ok, "entry must vanish with the deleted user")
}

func TestWatchlistIsPerUser(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	players := NewPlayerRepository(db)
	watchlist := NewWatchlistRepository(db)

	alice := seedUser(t, users, "alice@example.com")
	bob := seedUser(t, users, "bob@example.com")
	player := seedPlayer(t, players, &models.Player{FirstName: "Leo", LastName: "Messi", Position: models.PositionForward})

	require.NoError(t, watchlist.Add(alice.ID, player.ID))

	aliceList, err := watchlist.List(alice.ID)
	require.NoError(t, err)
	assert.Len(t, aliceList, 1)

	bobList, err := watchlist.List(bob.ID)
	require.NoError(t, err)
	assert.Len(t, bobList, 0)

	ok, err := watchlist.Contains(alice.ID, player.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = watchlist.Contains(bob.ID, player.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
