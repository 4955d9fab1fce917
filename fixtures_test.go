package picvault

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/kunleadeyemi/picvault/imgur"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// hostSpy records calls to the image host and serves canned responses.
type hostSpy struct {
	uploads      int
	deletes      int
	gets         int
	lastDeleted  string
	uploadResult imgur.Image
	getResult    string
	uploadErr    error
	deleteErr    error
	getErr       error
}

func (s *hostSpy) Upload(ctx context.Context, image []byte) (imgur.Image, error) {
	s.uploads++
	if s.uploadErr != nil {
		return imgur.Image{}, s.uploadErr
	}
	return s.uploadResult, nil
}

func (s *hostSpy) Delete(ctx context.Context, deleteHash string) error {
	s.deletes++
	s.lastDeleted = deleteHash
	return s.deleteErr
}

func (s *hostSpy) Get(ctx context.Context, imageID string) (string, error) {
	s.gets++
	if s.getErr != nil {
		return "", s.getErr
	}
	return s.getResult, nil
}

// registeredUser stores a ready identity, bypassing the service layer.
func registeredUser(users Repository, username string, images ...ImageRef) *User {
	u := &User{Username: username, Email: username + "@app.com", Role: RoleUser, Images: images}
	if err := users.Store(u); err != nil && !errors.Is(err, ErrExistingUsername) {
		panic(err)
	}
	return u
}
