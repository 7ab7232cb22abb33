package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/linkbio/backend/internal/models"
	"github.com/pageza/linkbio/backend/internal/repository"
	"github.com/pageza/linkbio/backend/internal/testhelpers"
)

func strPtr(s string) *string { return &s }

func newUserFixture(t *testing.T) (*UserService, *models.User) {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t)
	users := repository.NewUserRepository(db)
	profiles := repository.NewProfileRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"}
	require.NoError(t, users.CreateUser(ctx, user))
	require.NoError(t, profiles.CreateProfile(ctx, models.NewDefaultProfile(user.ID)))
	require.NoError(t, users.CreateUser(ctx, &models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "hash"}))

	return NewUserService(users, profiles, nil), user
}

func TestUserService_GetMe(t *testing.T) {
	svc, alice := newUserFixture(t)
	ctx := context.Background()

	user, profile, err := svc.GetMe(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	require.NotNil(t, profile)
	assert.Equal(t, alice.ID, profile.UserID)

	_, _, err = svc.GetMe(ctx, uuid.New())
	testhelpers.AssertErrorCode(t, err, CodeNotFound)
}

func TestUserService_GetPublicPage(t *testing.T) {
	svc, alice := newUserFixture(t)
	ctx := context.Background()

	user, profile, err := svc.GetPublicPage(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)
	assert.Equal(t, models.PublicUser{Username: "alice", Email: "alice@example.com"}, user.Public())
	assert.NotNil(t, profile)

	// bob has no profile row.
	_, profile, err = svc.GetPublicPage(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, profile)

	_, _, err = svc.GetPublicPage(ctx, "nobody")
	testhelpers.AssertErrorCode(t, err, CodeNotFound)
	assert.Equal(t, "User not found", err.Error())
}

func TestUserService_UpdateMe(t *testing.T) {
	svc, alice := newUserFixture(t)
	ctx := context.Background()

	user, profile, err := svc.UpdateMe(ctx, alice.ID,
		models.UserUpdate{Username: strPtr("  alicia "), Bio: strPtr("hello")},
		models.ProfileUpdate{Theme: strPtr("dark")},
	)
	require.NoError(t, err)
	assert.Equal(t, "alicia", user.Username)
	assert.Equal(t, "hello", user.Bio)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "dark", profile.Theme)
	assert.Equal(t, models.DefaultFontFamily, profile.FontFamily)

	// An empty update returns the current state.
	user, profile, err = svc.UpdateMe(ctx, alice.ID, models.UserUpdate{}, models.ProfileUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "alicia", user.Username)
	assert.Equal(t, "dark", profile.Theme)
}

func TestUserService_UpdateMeErrors(t *testing.T) {
	svc, alice := newUserFixture(t)
	ctx := context.Background()

	_, _, err := svc.UpdateMe(ctx, alice.ID, models.UserUpdate{Username: strPtr("bob")}, models.ProfileUpdate{})
	testhelpers.AssertErrorCode(t, err, CodeConflict)

	_, _, err = svc.UpdateMe(ctx, alice.ID, models.UserUpdate{Email: strPtr("bob@example.com")}, models.ProfileUpdate{})
	testhelpers.AssertErrorCode(t, err, CodeConflict)

	_, _, err = svc.UpdateMe(ctx, alice.ID, models.UserUpdate{Username: strPtr("   ")}, models.ProfileUpdate{})
	testhelpers.AssertErrorCode(t, err, CodeInvalidInput)

	_, _, err = svc.UpdateMe(ctx, uuid.New(), models.UserUpdate{Bio: strPtr("x")}, models.ProfileUpdate{})
	testhelpers.AssertErrorCode(t, err, CodeNotFound)
}
