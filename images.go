package picvault

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kunleadeyemi/picvault/imgur"
)

// ImageHost is the remote image service. Calls are synchronous network I/O
// and may fail with *imgur.RemoteError.
type ImageHost interface {
	Upload(ctx context.Context, image []byte) (imgur.Image, error)
	Delete(ctx context.Context, deleteHash string) error
	Get(ctx context.Context, imageID string) (string, error)
}

// ImageService manages a user's hosted images. Every operation takes an
// already-authenticated username supplied by the auth gate upstream.
type ImageService interface {
	UploadImage(ctx context.Context, username string, image []byte) (ImageRef, error)
	ListImages(ctx context.Context, username string) ([]string, error)
	DeleteImage(ctx context.Context, username, refID string) error
	GetImage(ctx context.Context, username, imageID string) (string, error)
}

type imageService struct {
	users Repository
	host  ImageHost
	log   *slog.Logger
}

func NewImageService(users Repository, host ImageHost, log *slog.Logger) ImageService {
	return &imageService{users: users, host: host, log: log}
}

func (svc *imageService) UploadImage(ctx context.Context, username string, image []byte) (ImageRef, error) {
	user, err := svc.users.FindByName(username)
	if err != nil {
		return ImageRef{}, err
	}

	hosted, err := svc.host.Upload(ctx, image)
	if err != nil {
		return ImageRef{}, err
	}

	ref := ImageRef{ID: newImageRefID(), URL: hosted.Link, DeleteHash: hosted.DeleteHash}
	user.Images = append(user.Images, ref)
	if err := svc.users.Update(user); err != nil {
		return ImageRef{}, fmt.Errorf("error saving image reference: %w", err)
	}

	svc.log.Info("image uploaded", "username", username, "ref", ref.ID)
	return ref, nil
}

func (svc *imageService) ListImages(ctx context.Context, username string) ([]string, error) {
	user, err := svc.users.FindByName(username)
	if err != nil {
		return nil, err
	}
	return user.ImageURLs(), nil
}

// DeleteImage removes the reference from the profile, then deletes the
// remote copy. The host is never called for a reference the profile does
// not hold. A remote failure is returned to the caller even though the
// local reference is already gone, so the dangling remote copy is not
// silently forgotten.
func (svc *imageService) DeleteImage(ctx context.Context, username, refID string) error {
	user, err := svc.users.FindByName(username)
	if err != nil {
		return err
	}

	i := user.FindImage(refID)
	if i < 0 {
		return ErrImageNotFound
	}
	ref := user.Images[i]

	user.RemoveImage(i)
	if err := svc.users.Update(user); err != nil {
		return fmt.Errorf("error removing image reference: %w", err)
	}

	if err := svc.host.Delete(ctx, ref.DeleteHash); err != nil {
		svc.log.Error("remote delete failed after local removal", "username", username, "ref", refID, "err", err)
		return err
	}

	svc.log.Info("image deleted", "username", username, "ref", refID)
	return nil
}

func (svc *imageService) GetImage(ctx context.Context, username, imageID string) (string, error) {
	if _, err := svc.users.FindByName(username); err != nil {
		return "", err
	}
	return svc.host.Get(ctx, imageID)
}
