package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"blog-go/src/middleware"
	"blog-go/src/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	r, _ := newTestServer(t, deadWeatherURL(t))

	w := postForm(r, "/register", url.Values{"username": {"admin"}, "password": {"s3cret"}})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "User created")
	assert.Contains(t, w.Body.String(), `"username":"admin"`)
	// The password hash must not appear in the response
	assert.NotContains(t, w.Body.String(), "$2a$")
	assert.NotContains(t, w.Body.String(), "s3cret")
}

func TestRegister_Duplicate(t *testing.T) {
	r, _ := newTestServer(t, deadWeatherURL(t))

	w := postForm(r, "/register", url.Values{"username": {"admin"}, "password": {"one"}})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postForm(r, "/register", url.Values{"username": {"admin"}, "password": {"two"}})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegister_MissingFields(t *testing.T) {
	r, _ := newTestServer(t, deadWeatherURL(t))

	w := postForm(r, "/register", url.Values{"username": {"admin"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	r, _ := newTestServer(t, deadWeatherURL(t))

	w := postForm(r, "/register", url.Values{"username": {"admin"}, "password": {"s3cret"}})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("success sets cookie and redirects", func(t *testing.T) {
		w := postForm(r, "/admin", url.Values{"username": {"admin"}, "password": {"s3cret"}})
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"))

		var found *http.Cookie
		for _, c := range w.Result().Cookies() {
			if c.Name == middleware.TokenCookieName {
				found = c
			}
		}
		require.NotNil(t, found)
		assert.True(t, found.HttpOnly)
		assert.NotEmpty(t, found.Value)
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		wrongPassword := postForm(r, "/admin", url.Values{"username": {"admin"}, "password": {"nope"}})
		unknownUser := postForm(r, "/admin", url.Values{"username": {"ghost"}, "password": {"s3cret"}})

		assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
		assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
		assert.Contains(t, wrongPassword.Body.String(), "Invalid credentials")
	})
}

func TestDashboard_RequiresAuth(t *testing.T) {
	r, _ := newTestServer(t, deadWeatherURL(t))

	w := get(r, "/dashboard")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "/dashboard", &http.Cookie{Name: middleware.TokenCookieName, Value: "forged"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDashboard_ListsAllPosts(t *testing.T) {
	r, db := newTestServer(t, deadWeatherURL(t))
	cookie := registerAndLogin(t, r)

	posts := &models.PostModel{DB: db}
	_, err := posts.Create("First post", "body", "", "")
	require.NoError(t, err)
	_, err = posts.Create("Second post", "body", "", "")
	require.NoError(t, err)

	w := get(r, "/dashboard", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "First post")
	assert.Contains(t, w.Body.String(), "Second post")
}

func TestAddPost_EndToEnd(t *testing.T) {
	r, db := newTestServer(t, deadWeatherURL(t))
	cookie := registerAndLogin(t, r)

	w := postForm(r, "/add-post", url.Values{"title": {"Hi"}, "body": {"World"}}, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	w = get(r, "/dashboard", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hi")

	// Omitted image and caption are stored as NULL
	var imageIsNull, captionIsNull bool
	err := db.QueryRow(`SELECT image_url IS NULL, caption IS NULL FROM posts WHERE title = 'Hi'`).
		Scan(&imageIsNull, &captionIsNull)
	require.NoError(t, err)
	assert.True(t, imageIsNull)
	assert.True(t, captionIsNull)
}

func TestAddPost_MissingTitle(t *testing.T) {
	r, _ := newTestServer(t, deadWeatherURL(t))
	cookie := registerAndLogin(t, r)

	w := postForm(r, "/add-post", url.Values{"body": {"World"}}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEditPost(t *testing.T) {
	r, db := newTestServer(t, deadWeatherURL(t))
	cookie := registerAndLogin(t, r)

	posts := &models.PostModel{DB: db}
	created, err := posts.Create("Old", "Old body", "/uploads/1-pic.jpg", "pic")
	require.NoError(t, err)

	w := putForm(r, "/edit-post/"+created.ID, url.Values{"title": {"New"}, "body": {"New body"}}, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/edit-post/"+created.ID, w.Header().Get("Location"))

	got, err := posts.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "New body", got.Body)
	assert.Equal(t, "/uploads/1-pic.jpg", got.ImageURL)
	assert.Equal(t, "pic", got.Caption)
}

func TestDeletePost(t *testing.T) {
	r, db := newTestServer(t, deadWeatherURL(t))
	cookie := registerAndLogin(t, r)

	posts := &models.PostModel{DB: db}
	created, err := posts.Create("Doomed", "body", "", "")
	require.NoError(t, err)

	w := doRequest(r, http.MethodDelete, "/delete-post/"+created.ID, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	_, err = posts.GetByID(created.ID)
	assert.ErrorIs(t, err, models.ErrPostNotFound)
}

func TestLogout(t *testing.T) {
	r, _ := newTestServer(t, deadWeatherURL(t))
	cookie := registerAndLogin(t, r)

	w := get(r, "/logout", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var cleared *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.TokenCookieName {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestShowLogin_RedirectsWhenAuthenticated(t *testing.T) {
	r, _ := newTestServer(t, deadWeatherURL(t))
	cookie := registerAndLogin(t, r)

	w := get(r, "/admin", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	w = get(r, "/admin")
	assert.Equal(t, http.StatusOK, w.Code)
}

func putForm(r *gin.Engine, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)
	return w
}

func doRequest(r *gin.Engine, method, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)
	return w
}
