package models

import (
	"time"
)

// Match is a symmetric pairwise record between two identities. The pair is
// stored canonically (UserA < UserB lexicographically) so that either
// submission order maps to the same document.
type Match struct {
	ID        string    `json:"id" bson:"_id"`
	PairKey   string    `json:"-" bson:"pair_key"`
	UserA     string    `json:"user_a" bson:"user_a"`
	UserB     string    `json:"user_b" bson:"user_b"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Counterpart returns the other side of the match for the given identity.
func (m *Match) Counterpart(id string) string {
	if m.UserA == id {
		return m.UserB
	}
	return m.UserA
}

// MatchWithUser is a match enriched with the counterpart's public identity.
type MatchWithUser struct {
	Match
	Partner PublicUser `json:"partner"`
}

type CreateMatchRequest struct {
	UserID string `json:"user_id"`
}
