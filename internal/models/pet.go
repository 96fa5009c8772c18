package models

import (
	"time"
)

// Pet is an adoption listing owned by a single user.
type Pet struct {
	ID          string    `json:"id" bson:"_id"`
	OwnerID     string    `json:"owner_id" bson:"owner_id"`
	Name        string    `json:"name" bson:"name"`
	Species     string    `json:"species" bson:"species"`
	Breed       string    `json:"breed" bson:"breed,omitempty"`
	Age         int       `json:"age" bson:"age"`
	Gender      string    `json:"gender" bson:"gender,omitempty"`
	Price       float64   `json:"price" bson:"price"`
	Description string    `json:"description" bson:"description,omitempty"`
	ImageURLs   []string  `json:"image_urls" bson:"image_urls,omitempty"`
	Address     string    `json:"address" bson:"address,omitempty"`
	Latitude    float64   `json:"latitude" bson:"latitude"`
	Longitude   float64   `json:"longitude" bson:"longitude"`
	IsAdopted   bool      `json:"is_adopted" bson:"is_adopted"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

type CreatePetRequest struct {
	Name        string   `json:"name"`
	Species     string   `json:"species"`
	Breed       string   `json:"breed"`
	Age         int      `json:"age"`
	Gender      string   `json:"gender"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	ImageURLs   []string `json:"image_urls"`
	Address     string   `json:"address"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
}

type UpdatePetRequest struct {
	Name        *string   `json:"name"`
	Breed       *string   `json:"breed"`
	Age         *int      `json:"age"`
	Gender      *string   `json:"gender"`
	Price       *float64  `json:"price"`
	Description *string   `json:"description"`
	ImageURLs   *[]string `json:"image_urls"`
	Address     *string   `json:"address"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	IsAdopted   *bool     `json:"is_adopted"`
}

// ListPetsQuery narrows pet listings; zero values mean "no filter".
type ListPetsQuery struct {
	Species string
	Breed   string
	MaxAge  int
	Limit   int
}

func (r *CreatePetRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.Species == "" {
		errors["species"] = "Species is required"
	}
	if r.Age < 0 {
		errors["age"] = "Age cannot be negative"
	}
	if r.Price < 0 {
		errors["price"] = "Price cannot be negative"
	}

	return errors
}
