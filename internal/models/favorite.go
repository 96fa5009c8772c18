package models

import (
	"time"
)

// Favorite saves a pet listing for a user.
type Favorite struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	PetID     string    `json:"pet_id" bson:"pet_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type FavoriteWithPet struct {
	Favorite
	Pet Pet `json:"pet"`
}
