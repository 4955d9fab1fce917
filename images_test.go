package picvault

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kunleadeyemi/picvault/imgur"
)

func TestUploadImage(t *testing.T) {
	users := NewUserRepository()
	registeredUser(users, "alice")
	host := &hostSpy{uploadResult: imgur.Image{ID: "h1", Link: "https://i.test/h1.png", DeleteHash: "del-h1"}}
	svc := NewImageService(users, host, discardLogger())

	ref, err := svc.UploadImage(context.Background(), "alice", []byte("png-bytes"))

	assert.NoError(t, err)
	assert.NotEmpty(t, ref.ID)
	assert.Equal(t, "https://i.test/h1.png", ref.URL)
	assert.Equal(t, 1, host.uploads)

	user, _ := users.FindByName("alice")
	assert.Equal(t, []ImageRef{ref}, user.Images)
}

func TestUploadImage_UnknownUser(t *testing.T) {
	host := &hostSpy{}
	svc := NewImageService(NewUserRepository(), host, discardLogger())

	_, err := svc.UploadImage(context.Background(), "nobody", []byte("png-bytes"))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, host.uploads)
}

func TestUploadImage_RemoteFailure(t *testing.T) {
	users := NewUserRepository()
	registeredUser(users, "alice")
	host := &hostSpy{uploadErr: &imgur.RemoteError{Op: "upload", StatusCode: 503}}
	svc := NewImageService(users, host, discardLogger())

	_, err := svc.UploadImage(context.Background(), "alice", []byte("png-bytes"))

	var remoteErr *imgur.RemoteError
	assert.ErrorAs(t, err, &remoteErr)

	user, _ := users.FindByName("alice")
	assert.Empty(t, user.Images)
}

func TestListImages_PreservesUploadOrder(t *testing.T) {
	users := NewUserRepository()
	registeredUser(users, "alice",
		ImageRef{ID: "r1", URL: "https://i.test/1.png"},
		ImageRef{ID: "r2", URL: "https://i.test/2.png"},
	)
	svc := NewImageService(users, &hostSpy{}, discardLogger())

	urls, err := svc.ListImages(context.Background(), "alice")

	assert.NoError(t, err)
	assert.Equal(t, []string{"https://i.test/1.png", "https://i.test/2.png"}, urls)
}

func TestListImages_EmptyProfile(t *testing.T) {
	users := NewUserRepository()
	registeredUser(users, "alice")
	svc := NewImageService(users, &hostSpy{}, discardLogger())

	urls, err := svc.ListImages(context.Background(), "alice")

	assert.NoError(t, err)
	assert.Equal(t, []string{}, urls)
}

func TestDeleteImage(t *testing.T) {
	users := NewUserRepository()
	registeredUser(users, "alice", ImageRef{ID: "r1", URL: "https://i.test/1.png", DeleteHash: "del-1"})
	host := &hostSpy{}
	svc := NewImageService(users, host, discardLogger())

	err := svc.DeleteImage(context.Background(), "alice", "r1")

	assert.NoError(t, err)
	assert.Equal(t, 1, host.deletes)
	assert.Equal(t, "del-1", host.lastDeleted)

	user, _ := users.FindByName("alice")
	assert.Empty(t, user.Images)
}

func TestDeleteImage_RefNotInProfile(t *testing.T) {
	users := NewUserRepository()
	registeredUser(users, "alice", ImageRef{ID: "r1", URL: "https://i.test/1.png"})
	host := &hostSpy{}
	svc := NewImageService(users, host, discardLogger())

	err := svc.DeleteImage(context.Background(), "alice", "r2")

	assert.ErrorIs(t, err, ErrImageNotFound)
	assert.Zero(t, host.deletes, "host must not be invoked for an absent reference")
}

func TestDeleteImage_RemoteFailureIsSurfaced(t *testing.T) {
	users := NewUserRepository()
	registeredUser(users, "alice", ImageRef{ID: "r1", URL: "https://i.test/1.png", DeleteHash: "del-1"})
	host := &hostSpy{deleteErr: &imgur.RemoteError{Op: "delete", StatusCode: 500}}
	svc := NewImageService(users, host, discardLogger())

	err := svc.DeleteImage(context.Background(), "alice", "r1")

	var remoteErr *imgur.RemoteError
	assert.ErrorAs(t, err, &remoteErr)

	// Local removal stands; the error tells the operator the remote copy
	// may still exist.
	user, _ := users.FindByName("alice")
	assert.Empty(t, user.Images)
}

func TestGetImage(t *testing.T) {
	users := NewUserRepository()
	registeredUser(users, "alice")
	host := &hostSpy{getResult: "https://i.test/h9.png"}
	svc := NewImageService(users, host, discardLogger())

	url, err := svc.GetImage(context.Background(), "alice", "h9")

	assert.NoError(t, err)
	assert.Equal(t, "https://i.test/h9.png", url)
	assert.Equal(t, 1, host.gets)
}

func TestGetImage_UnknownUser(t *testing.T) {
	host := &hostSpy{getResult: "https://i.test/h9.png"}
	svc := NewImageService(NewUserRepository(), host, discardLogger())

	_, err := svc.GetImage(context.Background(), "nobody", "h9")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, host.gets)
}
