package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/validation"
)

// Uploader stores an object and returns its public URL; implemented by helpers.GCSUploader.
type Uploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

type UserService struct {
	Users    repo.UserRepository
	Uploader Uploader
	Logger   *logrus.Logger
}

func NewUserService(users repo.UserRepository, uploader Uploader, logger *logrus.Logger) *UserService {
	return &UserService{Users: users, Uploader: uploader, Logger: logger}
}

type UpdateProfileInput struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
	Bio  *string `json:"bio" validate:"omitempty,max=500"`
}

var avatarExts = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// UpdateProfile changes name and bio; absent fields keep their value.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	if in.Name != nil {
		n := strings.TrimSpace(*in.Name)
		in.Name = &n
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Bio != nil {
		u.Bio = *in.Bio
	}
	if err := s.Users.UpdateProfile(ctx, u); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UploadAvatar stores an image for userID and records its URL on the profile.
func (s *UserService) UploadAvatar(ctx context.Context, userID, contentType string, r io.Reader) (*entity.User, error) {
	if s.Uploader == nil {
		return nil, ErrAvatarUnavailable
	}
	ext, ok := avatarExts[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, validation.NewError("avatar", "must be a jpeg, png, gif or webp image")
	}
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	object := path.Join("avatars", userID, uuid.NewString()+ext)
	url, err := s.Uploader.Upload(ctx, object, contentType, r)
	if err != nil {
		helpers.LogError(s.Logger, "avatar upload failed", err, logrus.Fields{"user_id": userID})
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	u.AvatarURL = url
	if err := s.Users.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
