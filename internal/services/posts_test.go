package services

import (
	"context"
	"errors"
	"testing"

	"lireddit/internal/models"
)

func TestPostServiceGet(t *testing.T) {
	gdb := newTestDB(t)
	user := createUser(t, gdb, "alice")
	svc := NewPostService(gdb)
	ctx := context.Background()

	created, err := svc.Create(ctx, user.ID, "  hello  ", "body")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Title != "hello" || created.Points != 0 {
		t.Errorf("unexpected post %+v", created)
	}

	got, err := svc.Get(ctx, created.ID, nil)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Creator.ID != user.ID {
		t.Errorf("Expected creator %d, got %d", user.ID, got.Creator.ID)
	}

	if _, err := svc.Get(ctx, 12345, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestPostServiceCreateUnknownUser(t *testing.T) {
	gdb := newTestDB(t)
	if _, err := NewPostService(gdb).Create(context.Background(), 77, "t", "x"); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Expected ErrNotAuthenticated, got %v", err)
	}
}

func TestPostServiceUpdate(t *testing.T) {
	gdb := newTestDB(t)
	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")
	post := createPosts(t, gdb, alice.ID, 1)[0]
	svc := NewPostService(gdb)
	ctx := context.Background()

	got, err := svc.Update(ctx, post.ID, alice.ID, nil)
	if err != nil || got != nil {
		t.Errorf("Update without title = (%v, %v), want (nil, nil)", got, err)
	}

	title := "renamed"
	if _, err := svc.Update(ctx, post.ID, bob.ID, &title); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for non-owner, got %v", err)
	}
	if _, err := svc.Update(ctx, 999, alice.ID, &title); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	got, err = svc.Update(ctx, post.ID, alice.ID, &title)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Title != "renamed" {
		t.Errorf("Expected renamed, got %s", got.Title)
	}
}

func TestPostServiceDelete(t *testing.T) {
	gdb := newTestDB(t)
	alice := createUser(t, gdb, "alice")
	bob := createUser(t, gdb, "bob")
	post := createPosts(t, gdb, alice.ID, 1)[0]
	svc := NewPostService(gdb)
	ctx := context.Background()

	NewVoteService(gdb).CastVote(ctx, bob.ID, post.ID, 1)

	if _, err := svc.Delete(ctx, post.ID, bob.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for non-owner, got %v", err)
	}

	ok, err := svc.Delete(ctx, post.ID, alice.ID)
	if err != nil || !ok {
		t.Fatalf("Delete = (%v, %v), want (true, nil)", ok, err)
	}

	var count int64
	gdb.Model(&models.Updoot{}).Where("post_id = ?", post.ID).Count(&count)
	if count != 0 {
		t.Errorf("Expected updoots removed with the post, got %d", count)
	}

	ok, err = svc.Delete(ctx, post.ID, alice.ID)
	if err != nil || ok {
		t.Errorf("second Delete = (%v, %v), want (false, nil)", ok, err)
	}
}
