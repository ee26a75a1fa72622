package controllers

import (
	"net/http"

	"myanmar-travel/middleware"
	"myanmar-travel/services"

	"github.com/gin-gonic/gin"
)

type PostController struct {
	Svc *services.PostService
}

func NewPostController(svc *services.PostService) *PostController {
	return &PostController{Svc: svc}
}

type postPayload struct {
	Title         string `json:"title" binding:"required"`
	Content       string `json:"content" binding:"required"`
	DestinationID *uint  `json:"destination_id"`
	Image         string `json:"image"`
}

type commentPayload struct {
	Content string `json:"content" binding:"required"`
}

// GET /api/posts?destination_id=&page=&page_size=
// Logged-in readers also get the ids of posts they liked.
func (ctrl *PostController) Feed(c *gin.Context) {
	page, err := ctrl.Svc.Feed(c.Request.Context(),
		queryUint(c, "destination_id"),
		queryInt(c, "page", 1),
		queryInt(c, "page_size", 10))
	if err != nil {
		respondError(c, err)
		return
	}
	ids := make([]uint, 0, len(page.Posts))
	for _, p := range page.Posts {
		ids = append(ids, p.ID)
	}
	liked, err := ctrl.Svc.LikedBy(c.Request.Context(), middleware.UserID(c), ids)
	if err != nil {
		respondError(c, err)
		return
	}
	likedIDs := make([]uint, 0, len(liked))
	for _, id := range ids {
		if liked[id] {
			likedIDs = append(likedIDs, id)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"posts":     page.Posts,
		"total":     page.Total,
		"page":      page.Page,
		"page_size": page.PageSize,
		"liked":     likedIDs,
	})
}

// GET /api/posts/:id
func (ctrl *PostController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	post, err := ctrl.Svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	liked, err := ctrl.Svc.LikedBy(c.Request.Context(), middleware.UserID(c), []uint{id})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post, "liked": liked[id]})
}

// POST /api/posts
func (ctrl *PostController) Create(c *gin.Context) {
	var p postPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "title and content required")
		return
	}
	post, err := ctrl.Svc.Create(c.Request.Context(), middleware.UserID(c), services.PostInput{
		Title:         p.Title,
		Content:       p.Content,
		DestinationID: p.DestinationID,
		Image:         p.Image,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Post created", "data": post})
}

// DELETE /api/posts/:id
func (ctrl *PostController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Svc.Delete(c.Request.Context(), middleware.UserID(c), middleware.IsAdmin(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

// POST /api/posts/:id/comments
func (ctrl *PostController) AddComment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var p commentPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "content required")
		return
	}
	comment, err := ctrl.Svc.AddComment(c.Request.Context(), middleware.UserID(c), id, p.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Comment added", "data": comment})
}

// DELETE /api/comments/:id
func (ctrl *PostController) DeleteComment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Svc.DeleteComment(c.Request.Context(), middleware.UserID(c), middleware.IsAdmin(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

// POST /api/posts/:id/like toggles the caller's like.
func (ctrl *PostController) ToggleLike(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	liked, count, err := ctrl.Svc.ToggleLike(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes_count": count})
}
