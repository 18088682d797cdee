package services

import (
	"fmt"
	"testing"
	"time"

	"lireddit/internal/db"
	"lireddit/internal/models"

	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open("sqlite://:memory:", "silent")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func createUser(t *testing.T, gdb *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{Username: name, Email: name + "@example.com", Password: "hash"}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user
}

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// createPosts creates n posts, post i at baseTime + i minutes, so the last
// one is the newest.
func createPosts(t *testing.T, gdb *gorm.DB, creatorID uint, n int) []models.Post {
	t.Helper()
	posts := make([]models.Post, n)
	for i := 0; i < n; i++ {
		posts[i] = models.Post{
			Title:     fmt.Sprintf("post %d", i),
			Text:      fmt.Sprintf("text of post %d", i),
			CreatorID: creatorID,
			CreatedAt: baseTime.Add(time.Duration(i) * time.Minute),
		}
		if err := gdb.Create(&posts[i]).Error; err != nil {
			t.Fatalf("create post %d: %v", i, err)
		}
	}
	return posts
}

func loadPoints(t *testing.T, gdb *gorm.DB, postID uint) int {
	t.Helper()
	var post models.Post
	if err := gdb.First(&post, postID).Error; err != nil {
		t.Fatalf("load post %d: %v", postID, err)
	}
	return post.Points
}
