package picvault

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository returns a credential store backed by the given
// collection. Username is the document _id, so uniqueness is enforced by
// the insert itself rather than a check-then-act in the service.
func NewMongoUserRepository(c *mongo.Collection) Repository {
	return &mongoUserRepository{collection: c}
}

func (m *mongoUserRepository) FindByName(username string) (*User, error) {
	var u User
	sr := m.collection.FindOne(context.TODO(), bson.M{"_id": username})

	if sr.Err() == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}

	if err := sr.Decode(&u); err != nil {
		return nil, err
	}

	return &u, nil
}

func (m *mongoUserRepository) Store(u *User) error {
	_, err := m.collection.InsertOne(context.TODO(), u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrExistingUsername
	}
	return err
}

func (m *mongoUserRepository) Update(u *User) error {
	res, err := m.collection.ReplaceOne(context.TODO(), bson.M{"_id": u.Username}, u)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
