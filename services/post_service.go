package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"myanmar-travel/models"

	"gorm.io/gorm"
)

type PostInput struct {
	Title         string
	Content       string
	DestinationID *uint
	Image         string // base64, optional
}

type PostPage struct {
	Posts    []models.Post `json:"posts"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

type PostService struct {
	DB        *gorm.DB
	UploadDir string
}

func NewPostService(db *gorm.DB, uploadDir string) *PostService {
	return &PostService{DB: db, UploadDir: uploadDir}
}

// Feed lists posts newest first. Page is 1-based; size is capped at 50.
func (s *PostService) Feed(ctx context.Context, destinationID uint, page, size int) (PostPage, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 50 {
		size = 10
	}
	q := s.DB.WithContext(ctx).Model(&models.Post{})
	if destinationID != 0 {
		q = q.Where("destination_id = ?", destinationID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return PostPage{}, fmt.Errorf("count posts: %w", err)
	}
	var posts []models.Post
	err := q.Preload("User").Preload("Destination").
		Order("created_at DESC").Order("id DESC").
		Offset((page - 1) * size).Limit(size).
		Find(&posts).Error
	if err != nil {
		return PostPage{}, fmt.Errorf("list posts: %w", err)
	}
	return PostPage{Posts: posts, Total: total, Page: page, PageSize: size}, nil
}

func (s *PostService) Get(ctx context.Context, id uint) (models.Post, error) {
	var post models.Post
	err := s.DB.WithContext(ctx).Preload("User").Preload("Destination").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Comments.User").
		First(&post, id).Error
	return post, notFound(err)
}

func (s *PostService) Create(ctx context.Context, userID uint, in PostInput) (models.Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return models.Post{}, fmt.Errorf("%w: title and content are required", ErrInvalidInput)
	}
	if in.DestinationID != nil && *in.DestinationID != 0 {
		if err := requireRow(ctx, s.DB, &models.Destination{}, *in.DestinationID, "destination"); err != nil {
			return models.Post{}, err
		}
	} else {
		in.DestinationID = nil
	}
	post := models.Post{UserID: userID, Title: title, Content: content, DestinationID: in.DestinationID}
	if in.Image != "" {
		path, err := SaveBase64Image(s.UploadDir, "posts", in.Image)
		if err != nil {
			return models.Post{}, err
		}
		post.ImageURL = path
	}
	if err := s.DB.WithContext(ctx).Omit("User", "Destination").Create(&post).Error; err != nil {
		return models.Post{}, fmt.Errorf("create post: %w", err)
	}
	return s.Get(ctx, post.ID)
}

// Delete removes a post owned by userID; admins may delete any post.
func (s *PostService) Delete(ctx context.Context, userID uint, isAdmin bool, postID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			return notFound(err)
		}
		if post.UserID != userID && !isAdmin {
			return ErrForbidden
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

func (s *PostService) AddComment(ctx context.Context, userID, postID uint, content string) (models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Comment{}, fmt.Errorf("%w: comment is empty", ErrInvalidInput)
	}
	if err := requireRow(ctx, s.DB, &models.Post{}, postID, "post"); err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return models.Comment{}, ErrNotFound
		}
		return models.Comment{}, err
	}
	c := models.Comment{PostID: postID, UserID: userID, Content: content}
	if err := s.DB.WithContext(ctx).Omit("User").Create(&c).Error; err != nil {
		return models.Comment{}, fmt.Errorf("create comment: %w", err)
	}
	err := s.DB.WithContext(ctx).Preload("User").First(&c, c.ID).Error
	return c, err
}

func (s *PostService) DeleteComment(ctx context.Context, userID uint, isAdmin bool, commentID uint) error {
	var c models.Comment
	if err := s.DB.WithContext(ctx).First(&c, commentID).Error; err != nil {
		return notFound(err)
	}
	if c.UserID != userID && !isAdmin {
		return ErrForbidden
	}
	return s.DB.WithContext(ctx).Delete(&c).Error
}

// ToggleLike adds or removes the user's like and keeps likes_count in step
// within one transaction. It returns the new state and count.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (bool, int, error) {
	var liked bool
	var count int
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			return notFound(err)
		}

		var existing models.Like
		err := tx.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Post{}).Where("id = ? AND likes_count > 0", postID).
				Update("likes_count", gorm.Expr("likes_count - 1")).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.Like{PostID: postID, UserID: userID}).Error; err != nil {
				if IsDuplicateKey(err) {
					return ErrDuplicate
				}
				return err
			}
			if err := tx.Model(&models.Post{}).Where("id = ?", postID).
				Update("likes_count", gorm.Expr("likes_count + 1")).Error; err != nil {
				return err
			}
			liked = true
		default:
			return err
		}
		return tx.Model(&models.Post{}).Select("likes_count").Where("id = ?", postID).Scan(&count).Error
	})
	return liked, count, err
}

// LikedBy reports which of postIDs the user has liked.
func (s *PostService) LikedBy(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error) {
	out := map[uint]bool{}
	if userID == 0 || len(postIDs) == 0 {
		return out, nil
	}
	var likes []models.Like
	if err := s.DB.WithContext(ctx).Where("user_id = ? AND post_id IN ?", userID, postIDs).Find(&likes).Error; err != nil {
		return nil, err
	}
	for _, l := range likes {
		out[l.PostID] = true
	}
	return out, nil
}
