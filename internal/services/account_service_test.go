package services

import (
	"context"
	"testing"

	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
)

func TestDeleteAccountCascadesAndReportsMedia(t *testing.T) {
	ctx := context.Background()

	users := NewMemoryUserService(nil)
	pets := NewMemoryPetService(nil)
	dating := NewMemoryDatingService(nil)
	matches := NewMemoryMatchService(users, dating, nil)
	chat := NewMemoryChatService(users, nil)
	favorites := NewMemoryFavoriteService(pets)
	stories := NewMemoryStoryService()
	flags := NewMemoryFlagService()
	acct := NewMemoryAccountService(users, pets, dating, matches, chat, favorites, stories, flags)

	if _, err := users.GetOrCreate(ctx, "alice", "alice@example.com", "Alice", ""); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	pet, err := pets.Create(ctx, "alice", &models.CreatePetRequest{
		Name: "Rex", Species: "dog", Age: 2,
		ImageURLs: []string{"https://cdn.example.com/rex.jpg"},
	})
	if err != nil {
		t.Fatalf("create pet: %v", err)
	}
	aliceProf, err := dating.Create(ctx, "alice", &models.CreateDatingProfileRequest{
		PetName: "Rex", Age: 30, Gender: models.GenderOther,
		ImageURLs: []string{"https://cdn.example.com/profile.jpg"},
	})
	if err != nil {
		t.Fatalf("create alice profile: %v", err)
	}
	bobProf := createProfile(t, dating, "bob", 28, 0, 0)
	if _, err := dating.Like(ctx, "bob", aliceProf.ID); err != nil {
		t.Fatalf("bob likes alice: %v", err)
	}
	if _, err := dating.Like(ctx, "alice", bobProf.ID); err != nil {
		t.Fatalf("alice likes bob: %v", err)
	}
	if _, err := matches.Create(ctx, "alice", "bob"); err != nil {
		t.Fatalf("create match: %v", err)
	}
	if _, err := chat.Send(ctx, "alice", &models.SendMessageRequest{ReceiverID: "bob", Body: "hi"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := chat.Send(ctx, "bob", &models.SendMessageRequest{ReceiverID: "alice", Body: "hey"}); err != nil {
		t.Fatalf("reply: %v", err)
	}
	if _, err := favorites.Add(ctx, "alice", pet.ID); err != nil {
		t.Fatalf("favorite: %v", err)
	}
	story, err := stories.Create(ctx, "alice", &models.CreateStoryRequest{
		Title: "Adopted!", Content: "Rex found a home", ImageURL: "https://cdn.example.com/story.jpg",
	})
	if err != nil {
		t.Fatalf("create story: %v", err)
	}
	if _, err := flags.AddStrike(ctx, "alice"); err != nil {
		t.Fatalf("strike: %v", err)
	}

	media, err := acct.DeleteAccount(ctx, "alice")
	if err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if len(media) != 3 {
		t.Fatalf("media URLs = %v, want pet + profile + story images", media)
	}

	if _, err := users.GetByID(ctx, "alice"); err != ErrUserNotFound {
		t.Fatalf("user still resolvable, err = %v", err)
	}
	if owned, _ := pets.ListByOwner(ctx, "alice"); len(owned) != 0 {
		t.Fatalf("pets remain: %d", len(owned))
	}
	if _, err := dating.GetByOwner(ctx, "alice"); err != ErrProfileNotFound {
		t.Fatalf("dating profile still resolvable, err = %v", err)
	}
	if _, err := stories.GetByID(ctx, story.ID); err != ErrStoryNotFound {
		t.Fatalf("story still resolvable, err = %v", err)
	}

	// The dead profile id is gone from bob's lists.
	bp, err := dating.GetByID(ctx, bobProf.ID)
	if err != nil {
		t.Fatalf("GetByID(bob): %v", err)
	}
	if containsString(bp.Likes, aliceProf.ID) || containsString(bp.Matches, aliceProf.ID) {
		t.Fatalf("bob still references deleted profile: likes=%v matches=%v", bp.Likes, bp.Matches)
	}

	if records, _ := matches.ListFor(ctx, "bob"); len(records) != 0 {
		t.Fatalf("match records remain: %d", len(records))
	}

	// Messages are soft-deleted, not purged.
	if hist, _ := chat.History(ctx, "alice", "bob"); len(hist) != 0 {
		t.Fatalf("history still visible: %d messages", len(hist))
	}
	if favs, _ := favorites.ListFor(ctx, "alice"); len(favs) != 0 {
		t.Fatalf("favorites remain: %d", len(favs))
	}
}

func TestDeleteAccountRejectsEmptyID(t *testing.T) {
	acct := NewMemoryAccountService(
		NewMemoryUserService(nil),
		NewMemoryPetService(nil),
		NewMemoryDatingService(nil),
		NewMemoryMatchService(nil, nil, nil),
		NewMemoryChatService(nil, nil),
		NewMemoryFavoriteService(nil),
		NewMemoryStoryService(),
		NewMemoryFlagService(),
	)
	if _, err := acct.DeleteAccount(context.Background(), ""); err != ErrAccountBadInput {
		t.Fatalf("err = %v, want ErrAccountBadInput", err)
	}
}
