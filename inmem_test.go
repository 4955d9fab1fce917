package picvault

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRepository_StoreEnforcesUniqueness(t *testing.T) {
	repo := NewUserRepository()

	assert.NoError(t, repo.Store(&User{Username: "alice"}))
	assert.ErrorIs(t, repo.Store(&User{Username: "alice"}), ErrExistingUsername)
}

func TestUserRepository_FindByName(t *testing.T) {
	repo := NewUserRepository()
	assert.NoError(t, repo.Store(&User{Username: "alice", Email: "a@x.com"}))

	u, err := repo.FindByName("alice")
	assert.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)

	_, err = repo.FindByName("nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_Update(t *testing.T) {
	repo := NewUserRepository()
	assert.NoError(t, repo.Store(&User{Username: "alice"}))

	assert.NoError(t, repo.Update(&User{Username: "alice", PhoneNumber: "555-0100"}))

	u, _ := repo.FindByName("alice")
	assert.Equal(t, "555-0100", u.PhoneNumber)

	assert.ErrorIs(t, repo.Update(&User{Username: "nobody"}), ErrNotFound)
}

func TestUserRepository_FindReturnsACopy(t *testing.T) {
	repo := NewUserRepository()
	assert.NoError(t, repo.Store(&User{Username: "alice", Images: []ImageRef{{ID: "r1"}}}))

	u, _ := repo.FindByName("alice")
	u.Email = "tampered@x.com"
	u.Images[0].ID = "tampered"

	again, _ := repo.FindByName("alice")
	assert.Empty(t, again.Email)
	assert.Equal(t, "r1", again.Images[0].ID)
}

func TestUserRepository_ConcurrentStoreOneWinner(t *testing.T) {
	repo := NewUserRepository()
	const attempts = 32

	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Store(&User{Username: "alice"})
		}()
	}
	wg.Wait()
	close(errs)

	successes := 0
	for err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrExistingUsername)
		}
	}
	assert.Equal(t, 1, successes)
}
