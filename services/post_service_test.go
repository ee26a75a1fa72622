package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestPostFeedPaging(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	svc := NewPostService(db, t.TempDir())
	ctx := t.Context()

	var ids []uint
	for i := 1; i <= 3; i++ {
		dest := f.mandalay.ID
		in := PostInput{Title: fmt.Sprintf("Day %d", i), Content: "Sunset at U Bein"}
		if i == 3 {
			in.DestinationID = &dest
		}
		p, err := svc.Create(ctx, f.user.ID, in)
		if err != nil {
			t.Fatalf("create post %d: %v", i, err)
		}
		ids = append(ids, p.ID)
	}

	page, err := svc.Feed(ctx, 0, 1, 2)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if page.Total != 3 || len(page.Posts) != 2 || page.Posts[0].ID != ids[2] || page.Posts[1].ID != ids[1] {
		t.Fatalf("unexpected first page %+v", page)
	}
	if page.Posts[0].User.Username != "aung" || page.Posts[0].Destination == nil {
		t.Fatalf("feed should carry author and destination")
	}
	page, _ = svc.Feed(ctx, 0, 2, 2)
	if len(page.Posts) != 1 || page.Posts[0].ID != ids[0] {
		t.Fatalf("unexpected second page %+v", page)
	}
	page, _ = svc.Feed(ctx, f.mandalay.ID, 1, 500)
	if page.Total != 1 || page.PageSize != 10 {
		t.Fatalf("destination filter or size cap failed: %+v", page)
	}

	if _, err := svc.Create(ctx, f.user.ID, PostInput{Title: " ", Content: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected missing title rejection, got %v", err)
	}
	bad := uint(999)
	if _, err := svc.Create(ctx, f.user.ID, PostInput{Title: "x", Content: "y", DestinationID: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected unknown destination rejection, got %v", err)
	}
}

func TestToggleLikeKeepsCount(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	svc := NewPostService(db, t.TempDir())
	ctx := t.Context()

	post, err := svc.Create(ctx, f.user.ID, PostInput{Title: "Bagan", Content: "Balloons at dawn"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	steps := []struct {
		user      uint
		liked     bool
		wantCount int
	}{
		{f.user.ID, true, 1},
		{f.other.ID, true, 2},
		{f.user.ID, false, 1},
		{f.user.ID, true, 2},
	}
	for i, s := range steps {
		liked, count, err := svc.ToggleLike(ctx, s.user, post.ID)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if liked != s.liked || count != s.wantCount {
			t.Fatalf("step %d: got liked=%v count=%d", i, liked, count)
		}
	}

	liked, err := svc.LikedBy(ctx, f.other.ID, []uint{post.ID, 999})
	if err != nil || !liked[post.ID] || liked[999] {
		t.Fatalf("liked by: %v %v", err, liked)
	}
	if _, _, err := svc.ToggleLike(ctx, f.user.ID, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCommentsAndDeletion(t *testing.T) {
	db := newTestDB(t)
	f := newFixture(t, db)
	svc := NewPostService(db, t.TempDir())
	ctx := t.Context()

	post, _ := svc.Create(ctx, f.user.ID, PostInput{Title: "Inle", Content: "Leg rowers"})
	c, err := svc.AddComment(ctx, f.other.ID, post.ID, " Beautiful! ")
	if err != nil || c.Content != "Beautiful!" || c.User.Username != "thiri" {
		t.Fatalf("add comment: %v %+v", err, c)
	}
	if _, err := svc.AddComment(ctx, f.other.ID, 999, "hello"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for missing post, got %v", err)
	}
	if _, err := svc.AddComment(ctx, f.other.ID, post.ID, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected empty comment rejection, got %v", err)
	}

	got, err := svc.Get(ctx, post.ID)
	if err != nil || len(got.Comments) != 1 {
		t.Fatalf("get with comments: %v", err)
	}

	if err := svc.DeleteComment(ctx, f.user.ID, false, c.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("only the author may delete a comment, got %v", err)
	}
	if err := svc.Delete(ctx, f.other.ID, false, post.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("only the author may delete a post, got %v", err)
	}
	if _, _, err := svc.ToggleLike(ctx, f.other.ID, post.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if err := svc.Delete(ctx, f.other.ID, true, post.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := svc.Get(ctx, post.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("post should be gone, got %v", err)
	}
}
