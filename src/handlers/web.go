package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"blog-go/src/config"
	"blog-go/src/models"
	"blog-go/src/services"
	"blog-go/src/utils"

	"github.com/gin-gonic/gin"
)

// WebHandler serves the public pages: home, post detail, comments, search and
// the static pages.
type WebHandler struct {
	posts    *models.PostModel
	comments *models.CommentModel
	weather  *services.WeatherService
	location config.WeatherConfig
	logger   *utils.Logger
}

// NewWebHandler creates a new public page handler.
func NewWebHandler(db *sql.DB, weather *services.WeatherService, location config.WeatherConfig, logger *utils.Logger) *WebHandler {
	return &WebHandler{
		posts:    &models.PostModel{DB: db},
		comments: &models.CommentModel{DB: db},
		weather:  weather,
		location: location,
		logger:   logger,
	}
}

// Home renders page 1..N of posts plus the weather widget. The weather fetch
// is best-effort: on failure the page renders without a weather block.
func (h *WebHandler) Home(c *gin.Context) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	snapshot, err := h.weather.Fetch(h.location.Latitude, h.location.Longitude, h.location.Location)
	if err != nil {
		h.logger.Error("Weather fetch failed: %v", err)
		snapshot = nil
	}

	posts, total, err := h.posts.ListPage(page, models.DefaultPageSize)
	if err != nil {
		h.logger.Error("Failed to list posts: %v", err)
		h.renderErrorPage(c, "Server Error")
		return
	}

	nextPage := 0
	if page+1 <= (total+models.DefaultPageSize-1)/models.DefaultPageSize {
		nextPage = page + 1
	}

	c.HTML(http.StatusOK, "pages/index.tmpl", gin.H{
		"title":       "My Blog",
		"description": "Simple blog",
		"posts":       posts,
		"weather":     snapshot,
		"currentPage": page,
		"nextPage":    nextPage,
	})
}

// ShowPost renders one post and its comments. A missing post is not
// distinguished from a store failure; both render the generic error page.
func (h *WebHandler) ShowPost(c *gin.Context) {
	id := c.Param("id")

	post, err := h.posts.GetByID(id)
	if err != nil {
		h.logger.Error("Failed to load post %s: %v", id, err)
		h.renderErrorPage(c, "Error loading post")
		return
	}

	comments, err := h.comments.ListByPost(id)
	if err != nil {
		h.logger.Error("Failed to load comments for post %s: %v", id, err)
		h.renderErrorPage(c, "Error loading post")
		return
	}

	c.HTML(http.StatusOK, "pages/post.tmpl", gin.H{
		"title":       post.Title,
		"description": "Simple blog",
		"post":        post,
		"comments":    comments,
	})
}

// CreateComment stores a comment for the post in the path and redirects back
// to the post page with a timestamp query so browsers bypass their cache.
func (h *WebHandler) CreateComment(c *gin.Context) {
	id := c.Param("id")

	_, err := h.comments.Create(id, c.PostForm("name"), c.PostForm("email"), c.PostForm("body"))
	if err != nil {
		h.logger.Error("Failed to create comment on post %s: %v", id, err)
		h.renderErrorPage(c, "Error submitting comment")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/post/%s?%d", id, time.Now().UnixMilli()))
}

// Search runs a sanitized substring search over titles and bodies.
func (h *WebHandler) Search(c *gin.Context) {
	term := c.PostForm("searchTerm")

	posts, err := h.posts.Search(term)
	if err != nil {
		h.logger.Error("Search failed: %v", err)
		h.renderErrorPage(c, "Search Error")
		return
	}

	c.HTML(http.StatusOK, "pages/search.tmpl", gin.H{
		"title":       "Search",
		"description": "Simple blog",
		"searchTerm":  term,
		"posts":       posts,
	})
}

// About renders the static about page.
func (h *WebHandler) About(c *gin.Context) {
	c.HTML(http.StatusOK, "pages/about.tmpl", gin.H{
		"title":       "About",
		"description": "Simple blog",
	})
}

// Contact renders the static contact page.
func (h *WebHandler) Contact(c *gin.Context) {
	c.HTML(http.StatusOK, "pages/contact.tmpl", gin.H{
		"title":       "Contact",
		"description": "Simple blog",
	})
}

func (h *WebHandler) renderErrorPage(c *gin.Context, message string) {
	c.HTML(http.StatusInternalServerError, "pages/error.tmpl", gin.H{
		"title":   "Error",
		"message": message,
	})
}
