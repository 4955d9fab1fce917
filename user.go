package picvault

import (
	"errors"
	"regexp"

	"github.com/rs/xid"
)

// Repository is the credential store: a durable mapping from username to
// the stored identity. Store must enforce username uniqueness on first
// insert so concurrent duplicate registrations cannot both succeed.
type Repository interface {
	FindByName(username string) (*User, error)
	Store(u *User) error
	Update(u *User) error
}

const RoleUser = "USER"

// User is one registered identity. Username is the unique, immutable key.
// Password holds the bcrypt digest, never the plaintext.
type User struct {
	Username    string     `bson:"_id" json:"username"`
	Password    string     `bson:"password" json:"-"`
	Email       string     `bson:"email" json:"email"`
	PhoneNumber string     `bson:"phoneNumber" json:"phoneNumber"`
	Role        string     `bson:"role" json:"role"`
	Images      []ImageRef `bson:"images" json:"-"`
}

// ImageRef is one hosted image in a user's profile. DeleteHash is the
// host-issued credential needed to remove the remote copy.
type ImageRef struct {
	ID         string `bson:"_id" json:"id"`
	URL        string `bson:"url" json:"url"`
	DeleteHash string `bson:"deleteHash" json:"-"`
}

var (
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrExistingUsername   = errors.New("username in use")
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrImageNotFound      = errors.New("image not found in profile")
)

var (
	usernameRegexp = regexp.MustCompile(`^\w{1,24}$`)
	emailRegexp    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// NewUser validates username and email and returns a new User with the
// default role. The password digest is filled in by the account service.
func NewUser(username, email, phoneNumber string) (*User, error) {
	if !usernameRegexp.MatchString(username) {
		return nil, ErrInvalidUsername
	}

	if !emailRegexp.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	return &User{Username: username, Email: email, PhoneNumber: phoneNumber, Role: RoleUser}, nil
}

// FindImage returns the index of the reference with the given id,
// or -1 if the profile does not contain it.
func (u *User) FindImage(refID string) int {
	for i, ref := range u.Images {
		if ref.ID == refID {
			return i
		}
	}
	return -1
}

// RemoveImage drops the reference at index i, preserving order.
func (u *User) RemoveImage(i int) {
	u.Images = append(u.Images[:i], u.Images[i+1:]...)
}

// ImageURLs returns the profile's image links in upload order.
func (u *User) ImageURLs() []string {
	urls := make([]string, 0, len(u.Images))
	for _, ref := range u.Images {
		urls = append(urls, ref.URL)
	}
	return urls
}

func newImageRefID() string {
	return xid.New().String()
}
