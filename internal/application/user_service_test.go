package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/testutil"
	"github.com/oksasatya/go-task-manager/pkg/validation"
)

func seedUser(t *testing.T, users *testutil.UserStore) *entity.User {
	t.Helper()
	u := &entity.User{Name: "Alice", Email: "alice@x.io", PasswordHash: "hash"}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestGetProfile(t *testing.T) {
	users := testutil.NewUserStore()
	u := seedUser(t, users)
	svc := NewUserService(users, nil, nil)

	got, err := svc.GetProfile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.io", got.Email)

	_, err = svc.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	users := testutil.NewUserStore()
	u := seedUser(t, users)
	svc := NewUserService(users, nil, nil)
	ctx := context.Background()

	got, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Bio: strp("Gopher")})
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "Gopher", got.Bio)

	got, err = svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Name: strp(" Alice B ")})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", got.Name)
	assert.Equal(t, "Gopher", got.Bio)

	_, err = svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Name: strp("  ")})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Details, "name")

	_, err = svc.UpdateProfile(ctx, "missing", UpdateProfileInput{Bio: strp("x")})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUploadAvatar(t *testing.T) {
	users := testutil.NewUserStore()
	u := seedUser(t, users)
	up := &testutil.Uploader{}
	svc := NewUserService(users, up, nil)
	ctx := context.Background()

	got, err := svc.UploadAvatar(ctx, u.ID, "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.AvatarURL, "https://storage.example.test/avatars/"+u.ID+"/"))
	assert.True(t, strings.HasSuffix(got.AvatarURL, ".png"))
	require.Len(t, up.Objects, 1)

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, got.AvatarURL, stored.AvatarURL)

	_, err = svc.UploadAvatar(ctx, u.ID, "application/pdf", strings.NewReader("%PDF"))
	var verr *validation.Error
	assert.ErrorAs(t, err, &verr)

	_, err = NewUserService(users, nil, nil).UploadAvatar(ctx, u.ID, "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrAvatarUnavailable)
}
