package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/linkbio/backend/internal/models"
	"github.com/pageza/linkbio/backend/internal/testhelpers"
)

func createUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: email, PasswordHash: "hash"}
	require.NoError(t, NewUserRepository(db).CreateUser(context.Background(), user))
	require.NoError(t, NewProfileRepository(db).CreateProfile(context.Background(), models.NewDefaultProfile(user.ID)))
	return user
}

func TestUserRepository_Lookups(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "alice", "alice@example.com")

	byID, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byEmail, err := repo.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byName, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	for _, ident := range []string{"alice", "alice@example.com"} {
		found, err := repo.GetUserByEmailOrUsername(ctx, ident)
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	}

	_, err = repo.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = repo.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repo := NewUserRepository(db)
	createUser(t, db, "alice", "alice@example.com")

	err := repo.CreateUser(context.Background(), &models.User{Username: "other", Email: "alice@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, models.ErrDuplicate)

	err = repo.CreateUser(context.Background(), &models.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, models.ErrDuplicate)
}

func TestUserRepository_Updates(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "alice", "alice@example.com")
	createUser(t, db, "bob", "bob@example.com")

	bio := "hello"
	updated, err := repo.UpdateUser(ctx, user.ID, models.UserUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.Bio)
	assert.Equal(t, "alice", updated.Username)

	taken := "bob"
	_, err = repo.UpdateUser(ctx, user.ID, models.UserUpdate{Username: &taken})
	assert.ErrorIs(t, err, models.ErrDuplicate)

	_, err = repo.UpdateUser(ctx, uuid.New(), models.UserUpdate{Bio: &bio})
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, repo.UpdateUserPassword(ctx, user.ID, "new-hash"))
	require.NoError(t, repo.VerifyEmail(ctx, user.ID))
	// Verifying twice is harmless.
	require.NoError(t, repo.VerifyEmail(ctx, user.ID))

	got, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.True(t, got.EmailVerified)

	assert.ErrorIs(t, repo.UpdateUserPassword(ctx, uuid.New(), "x"), models.ErrNotFound)
	assert.ErrorIs(t, repo.VerifyEmail(ctx, uuid.New()), models.ErrNotFound)
}

func TestUserRepository_DeleteUserCascades(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	sessions := NewSessionRepository(db)
	links := NewLinkRepository(db)

	alice := createUser(t, db, "alice", "alice@example.com")
	bob := createUser(t, db, "bob", "bob@example.com")

	require.NoError(t, sessions.CreateSession(ctx, &models.Session{UserID: alice.ID, Token: "a1", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, sessions.CreateSession(ctx, &models.Session{UserID: bob.ID, Token: "b1", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, links.CreateLink(ctx, &models.Link{UserID: alice.ID, Title: "site", URL: "https://a.test"}))

	require.NoError(t, users.DeleteUser(ctx, alice.ID))

	_, err := users.GetUserByID(ctx, alice.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = NewProfileRepository(db).GetProfileByUserID(ctx, alice.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = sessions.GetSessionByToken(ctx, "a1")
	assert.ErrorIs(t, err, models.ErrNotFound)
	remaining, err := links.ListLinksByUserID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	// Other users are untouched.
	_, err = sessions.GetSessionByToken(ctx, "b1")
	assert.NoError(t, err)

	assert.ErrorIs(t, users.DeleteUser(ctx, alice.ID), models.ErrNotFound)
}

func TestProfileRepository(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "alice", "alice@example.com")

	profile, err := repo.GetProfileByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultTheme, profile.Theme)
	assert.Equal(t, models.DefaultGradientDirection, profile.GradientDirection)
	assert.False(t, profile.GradientEnabled)

	theme := "dark"
	enabled := true
	updated, err := repo.UpdateProfileByUserID(ctx, user.ID, models.ProfileUpdate{Theme: &theme, GradientEnabled: &enabled})
	require.NoError(t, err)
	assert.Equal(t, "dark", updated.Theme)
	assert.True(t, updated.GradientEnabled)
	assert.Equal(t, models.DefaultFontFamily, updated.FontFamily)

	// One profile per user.
	err = repo.CreateProfile(ctx, models.NewDefaultProfile(user.ID))
	assert.ErrorIs(t, err, models.ErrDuplicate)

	_, err = repo.UpdateProfileByUserID(ctx, uuid.New(), models.ProfileUpdate{Theme: &theme})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSessionRepository(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "alice", "alice@example.com")
	expires := time.Now().Add(24 * time.Hour)

	require.NoError(t, repo.CreateSession(ctx, &models.Session{UserID: user.ID, Token: "t1", ExpiresAt: expires}))
	require.NoError(t, repo.CreateSession(ctx, &models.Session{UserID: user.ID, Token: "t2", ExpiresAt: expires}))

	err := repo.CreateSession(ctx, &models.Session{UserID: user.ID, Token: "t1", ExpiresAt: expires})
	assert.ErrorIs(t, err, models.ErrDuplicate)

	require.NoError(t, repo.DeleteSession(ctx, "t1"))
	require.NoError(t, repo.DeleteSession(ctx, "t1"))
	require.NoError(t, repo.DeleteSession(ctx, "unknown"))

	sessions, err := repo.ListUserSessions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "t2", sessions[0].Token)

	require.NoError(t, repo.DeleteUserSessions(ctx, user.ID))
	sessions, err = repo.ListUserSessions(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestLinkRepository(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()
	user := createUser(t, db, "alice", "alice@example.com")

	second := &models.Link{UserID: user.ID, Title: "second", URL: "https://b.test", Position: 1}
	first := &models.Link{UserID: user.ID, Title: "first", URL: "https://a.test", Position: 0}
	require.NoError(t, repo.CreateLink(ctx, second))
	require.NoError(t, repo.CreateLink(ctx, first))

	links, err := repo.ListLinksByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "first", links[0].Title)
	assert.Equal(t, "second", links[1].Title)

	first.Title = "renamed"
	first.Position = 5
	require.NoError(t, repo.UpdateLink(ctx, first))
	got, err := repo.GetLinkByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, 5, got.Position)

	clicked, err := repo.IncrementClicks(ctx, first.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, clicked.Clicks)
	clicked, err = repo.IncrementClicks(ctx, first.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, clicked.Clicks)

	require.NoError(t, repo.DeleteLink(ctx, first.ID))
	assert.ErrorIs(t, repo.DeleteLink(ctx, first.ID), models.ErrNotFound)
	_, err = repo.IncrementClicks(ctx, first.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateLink(ctx, first), models.ErrNotFound)
	_, err = repo.GetLinkByID(ctx, first.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRedisSessionStore(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	store := NewRedisSessionStore(client)
	ctx := context.Background()
	userID := uuid.New()
	expires := time.Now().Add(time.Hour)

	require.NoError(t, store.CreateSession(ctx, &models.Session{UserID: userID, Token: "t1", ExpiresAt: expires}))
	require.NoError(t, store.CreateSession(ctx, &models.Session{UserID: userID, Token: "t2", ExpiresAt: expires}))

	owner, err := store.GetSessionUserID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, userID, owner)

	ttl, err := client.TTL(ctx, sessionKey("t1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	require.NoError(t, store.DeleteSession(ctx, "t1"))
	require.NoError(t, store.DeleteSession(ctx, "t1"))
	_, err = store.GetSessionUserID(ctx, "t1")
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, store.DeleteUserSessions(ctx, userID))
	_, err = store.GetSessionUserID(ctx, "t2")
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Already expired sessions are skipped.
	require.NoError(t, store.CreateSession(ctx, &models.Session{UserID: userID, Token: "old", ExpiresAt: time.Now().Add(-time.Minute)}))
	_, err = store.GetSessionUserID(ctx, "old")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPostgresRepositories(t *testing.T) {
	db, _ := testhelpers.SetupPostgresDatabase(t)
	ctx := context.Background()
	users := NewUserRepository(db)

	user := createUser(t, db, "alice", "alice@example.com")
	err := users.CreateUser(ctx, &models.User{Username: "alice2", Email: "alice@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, models.ErrDuplicate)

	require.NoError(t, NewSessionRepository(db).CreateSession(ctx, &models.Session{UserID: user.ID, Token: "pg", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, users.DeleteUser(ctx, user.ID))
	_, err = NewSessionRepository(db).GetSessionByToken(ctx, "pg")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
