package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookclub/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(m *testMocks)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{"title": "Reading log", "content": "Started Foundation"},
			mockSetup: func(m *testMocks) {
				m.posts.On("Create", mock.Anything, mock.Anything).Return(nil)
				m.posts.On("GetByID", mock.Anything, mock.Anything, uint(1)).
					Return(&models.Post{ID: 1, Title: "Reading log"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing fields",
			body:           map[string]string{"title": ""},
			mockSetup:      func(m *testMocks) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := newTestServer()
			tt.mockSetup(m)

			app := fiber.New()
			app.Use(withUser(1))
			app.Post("/posts", s.CreatePost)

			resp, err := app.Test(jsonRequest(t, http.MethodPost, "/posts", tt.body))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestLikePost(t *testing.T) {
	t.Run("first like answers 201 with detail", func(t *testing.T) {
		s, m := newTestServer()
		m.posts.On("GetByID", mock.Anything, uint(10), uint(1)).
			Return(&models.Post{ID: 10, UserID: 2}, nil)
		m.posts.On("Like", mock.Anything, uint(1), uint(10)).Return(true, nil)
		m.notifications.On("Create", mock.Anything, mock.Anything).Return(nil)

		app := fiber.New()
		app.Use(withUser(1))
		app.Post("/posts/:id/like", s.LikePost)

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/posts/10/like", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Post liked", body["detail"])
		m.notifications.AssertExpectations(t)
	})

	t.Run("repeat like answers 400 with detail", func(t *testing.T) {
		s, m := newTestServer()
		m.posts.On("GetByID", mock.Anything, uint(10), uint(1)).
			Return(&models.Post{ID: 10, UserID: 2}, nil)
		m.posts.On("Like", mock.Anything, uint(1), uint(10)).Return(false, nil)

		app := fiber.New()
		app.Use(withUser(1))
		app.Post("/posts/:id/like", s.LikePost)

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/posts/10/like", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Already liked", body["detail"])
	})

	t.Run("unknown post answers 404", func(t *testing.T) {
		s, m := newTestServer()
		m.posts.On("GetByID", mock.Anything, uint(99), uint(1)).
			Return(nil, models.NewNotFoundError("Post", uint(99)))

		app := fiber.New()
		app.Use(withUser(1))
		app.Post("/posts/:id/like", s.LikePost)

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/posts/99/like", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUnlikePost(t *testing.T) {
	t.Run("removes the like and answers 200", func(t *testing.T) {
		s, m := newTestServer()
		m.posts.On("GetByID", mock.Anything, uint(10), uint(1)).
			Return(&models.Post{ID: 10, UserID: 2}, nil)
		m.posts.On("Unlike", mock.Anything, uint(1), uint(10)).Return(true, nil)
		m.notifications.On("DeleteMatching", mock.Anything, uint(2), uint(1),
			models.VerbLikedPost, models.TargetPost, uint(10)).Return(nil)

		app := fiber.New()
		app.Use(withUser(1))
		app.Post("/posts/:id/unlike", s.UnlikePost)

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/posts/10/unlike", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Post unliked", body["detail"])
		m.notifications.AssertExpectations(t)
	})

	t.Run("without a prior like answers 400 with detail", func(t *testing.T) {
		s, m := newTestServer()
		m.posts.On("GetByID", mock.Anything, uint(10), uint(1)).
			Return(&models.Post{ID: 10, UserID: 2}, nil)
		m.posts.On("Unlike", mock.Anything, uint(1), uint(10)).Return(false, nil)

		app := fiber.New()
		app.Use(withUser(1))
		app.Post("/posts/:id/unlike", s.UnlikePost)

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/posts/10/unlike", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "You haven't liked this post", body["detail"])
	})
}

func TestFeed(t *testing.T) {
	s, m := newTestServer()
	m.posts.On("Feed", mock.Anything, uint(1), 20, 0).Return([]*models.Post{
		{ID: 2, Title: "Newer", UserID: 3},
		{ID: 1, Title: "Older", UserID: 2},
	}, nil)

	app := fiber.New()
	app.Use(withUser(1))
	app.Get("/feed", s.Feed)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/feed", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 2)
	assert.Equal(t, "Newer", body[0]["title"])
}

func TestUpdatePost_Forbidden(t *testing.T) {
	s, m := newTestServer()
	m.posts.On("GetByID", mock.Anything, uint(10), uint(1)).
		Return(&models.Post{ID: 10, UserID: 2}, nil)

	app := fiber.New()
	app.Use(withUser(1))
	app.Put("/posts/:id", s.UpdatePost)

	req := jsonRequest(t, http.MethodPut, "/posts/10", map[string]string{
		"title": "x", "content": "y",
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
