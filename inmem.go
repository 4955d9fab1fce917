package picvault

import "sync"

type userRepository struct {
	mu    sync.Mutex
	users map[string]*User
}

// NewUserRepository returns an in-memory credential store. The uniqueness
// check and the insert happen under one lock, so concurrent registrations
// for the same username resolve to exactly one winner.
func NewUserRepository() Repository {
	return &userRepository{users: map[string]*User{}}
}

func (repo *userRepository) FindByName(username string) (*User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	u, ok := repo.users[username]
	if !ok {
		return nil, ErrNotFound
	}

	c := *u
	c.Images = append([]ImageRef(nil), u.Images...)
	return &c, nil
}

func (repo *userRepository) Store(u *User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.users[u.Username]; ok {
		return ErrExistingUsername
	}

	c := *u
	repo.users[u.Username] = &c
	return nil
}

func (repo *userRepository) Update(u *User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.users[u.Username]; !ok {
		return ErrNotFound
	}

	c := *u
	repo.users[u.Username] = &c
	return nil
}
