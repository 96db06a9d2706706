package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"blog-go/src/auth"
	"blog-go/src/middleware"
	"blog-go/src/models"
	"blog-go/src/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the login, registration and post-management routes.
type AdminHandler struct {
	posts         *models.PostModel
	users         *models.UserModel
	secret        []byte
	uploadsDir    string
	uploadsPrefix string
	logger        *utils.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(db *sql.DB, secret []byte, uploadsDir, uploadsPrefix string, logger *utils.Logger) *AdminHandler {
	return &AdminHandler{
		posts:         &models.PostModel{DB: db},
		users:         &models.UserModel{DB: db},
		secret:        secret,
		uploadsDir:    uploadsDir,
		uploadsPrefix: uploadsPrefix,
		logger:        logger,
	}
}

// LoginRequest is the login payload, accepted as form fields or JSON.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ShowLogin renders the admin login page. An already-authenticated browser is
// sent straight to the dashboard.
func (h *AdminHandler) ShowLogin(c *gin.Context) {
	if token, err := c.Cookie(middleware.TokenCookieName); err == nil {
		if _, err := auth.VerifyToken(h.secret, token); err == nil {
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
	}

	c.HTML(http.StatusOK, "admin/login.tmpl", gin.H{
		"title":       "Admin",
		"description": "Simple blog",
	})
}

// HandleLogin checks credentials and issues the session cookie. An unknown
// username and a wrong password produce identical responses so the two cases
// cannot be told apart.
func (h *AdminHandler) HandleLogin(c *gin.Context) {
	var req LoginRequest
	if strings.Contains(c.GetHeader("Content-Type"), "application/json") {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, "Invalid request")
			return
		}
	} else {
		req.Username = c.PostForm("username")
		req.Password = c.PostForm("password")
	}

	user, err := h.users.GetByUsername(req.Username)
	if err != nil {
		respondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !h.users.CheckPassword(user, req.Password) {
		respondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.IssueToken(h.secret, user.ID)
	if err != nil {
		h.logger.Error("Failed to issue token: %v", err)
		respondWithError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.SetCookie(middleware.TokenCookieName, token, int(auth.TokenTTL.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, "/dashboard")
}

// HandleRegister creates an admin account. The response carries the created
// user without its password hash.
func (h *AdminHandler) HandleRegister(c *gin.Context) {
	var req RegisterRequest
	if strings.Contains(c.GetHeader("Content-Type"), "application/json") {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, "Username and password are required")
			return
		}
	} else {
		req.Username = c.PostForm("username")
		req.Password = c.PostForm("password")
	}

	if req.Username == "" || req.Password == "" {
		respondWithError(c, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.users.Create(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateUser) {
			respondWithError(c, http.StatusConflict, "Username already in use")
			return
		}
		h.logger.Error("Failed to create user: %v", err)
		respondWithError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created",
		"user":    user,
	})
}

// Dashboard lists every post for the admin.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	posts, err := h.posts.ListAll()
	if err != nil {
		h.logger.Error("Failed to list posts: %v", err)
		h.renderErrorPage(c, "Server Error")
		return
	}

	c.HTML(http.StatusOK, "admin/dashboard.tmpl", gin.H{
		"title":       "Dashboard",
		"description": "Simple blog",
		"posts":       posts,
	})
}

// ShowAddPost renders the add-post form.
func (h *AdminHandler) ShowAddPost(c *gin.Context) {
	c.HTML(http.StatusOK, "admin/add-post.tmpl", gin.H{
		"title":       "Add post",
		"description": "Simple blog",
	})
}

// HandleAddPost creates a post from a multipart form. The image is optional;
// when present it is stored under the uploads directory with a timestamp
// prefix so repeated uploads of the same filename never collide.
func (h *AdminHandler) HandleAddPost(c *gin.Context) {
	title := c.PostForm("title")
	body := c.PostForm("body")
	caption := c.PostForm("caption")

	if title == "" || body == "" {
		respondWithError(c, http.StatusBadRequest, "Title and body are required")
		return
	}

	imageURL := ""
	if file, err := c.FormFile("image"); err == nil {
		filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(file.Filename))
		if err := c.SaveUploadedFile(file, filepath.Join(h.uploadsDir, filename)); err != nil {
			h.logger.Error("Failed to store upload: %v", err)
			h.renderErrorPage(c, "Error uploading post")
			return
		}
		imageURL = path.Join(h.uploadsPrefix, filename)
	}

	if _, err := h.posts.Create(title, body, imageURL, caption); err != nil {
		h.logger.Error("Failed to create post: %v", err)
		h.renderErrorPage(c, "Error uploading post")
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

// ShowEditPost renders the edit form for one post.
func (h *AdminHandler) ShowEditPost(c *gin.Context) {
	post, err := h.posts.GetByID(c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to load post %s: %v", c.Param("id"), err)
		h.renderErrorPage(c, "Server Error")
		return
	}

	c.HTML(http.StatusOK, "admin/edit-post.tmpl", gin.H{
		"title":       "Edit",
		"description": "Simple blog",
		"post":        post,
	})
}

// HandleEditPost patches title and body of a post and returns to the form.
func (h *AdminHandler) HandleEditPost(c *gin.Context) {
	id := c.Param("id")

	if err := h.posts.UpdateByID(id, c.PostForm("title"), c.PostForm("body")); err != nil {
		h.logger.Error("Failed to update post %s: %v", id, err)
		h.renderErrorPage(c, "Server Error")
		return
	}

	c.Redirect(http.StatusFound, "/edit-post/"+id)
}

// HandleDeletePost removes a post and returns to the dashboard. Comments on
// the deleted post stay behind.
func (h *AdminHandler) HandleDeletePost(c *gin.Context) {
	if err := h.posts.DeleteByID(c.Param("id")); err != nil {
		h.logger.Error("Failed to delete post %s: %v", c.Param("id"), err)
		h.renderErrorPage(c, "Server Error")
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

// Logout clears the session cookie. The token itself stays valid until its
// expiry; there is no server-side invalidation.
func (h *AdminHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.TokenCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *AdminHandler) renderErrorPage(c *gin.Context, message string) {
	c.HTML(http.StatusInternalServerError, "pages/error.tmpl", gin.H{
		"title":   "Error",
		"message": message,
	})
}
