package server

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"socialapi/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, app *fiber.App, email, password string) models.User {
	t.Helper()
	resp := doRequest(t, app, http.MethodPost, "/users", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusCreated, resp.Status, "body: %s", resp.Body)
	var user models.User
	resp.decode(t, &user)
	return user
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp := doRequest(t, app, http.MethodPost, "/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.Status, "body: %s", resp.Body)
	var tok TokenResponse
	resp.decode(t, &tok)
	return tok.AccessToken
}

func createPost(t *testing.T, app *fiber.App, token, title string) models.Post {
	t.Helper()
	resp := doRequest(t, app, http.MethodPost, "/posts", token, map[string]any{"title": title, "content": "about " + title})
	require.Equal(t, http.StatusCreated, resp.Status, "body: %s", resp.Body)
	var post models.Post
	resp.decode(t, &post)
	return post
}

func TestAccountFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	app := srv.App()

	alice := register(t, app, "Alice@Example.com", "wonderland")
	assert.Equal(t, "alice@example.com", alice.Email)
	assert.NotZero(t, alice.ID)

	t.Run("password never serialized", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, fmt.Sprintf("/users/%d", alice.ID), "", nil)
		require.Equal(t, http.StatusOK, resp.Status)
		assert.NotContains(t, string(resp.Body), "password")
		assert.NotContains(t, string(resp.Body), "wonderland")
	})

	t.Run("duplicate email differing in case", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/users", "", map[string]string{"email": "ALICE@example.com", "password": "x"})
		assert.Equal(t, http.StatusConflict, resp.Status)
	})

	t.Run("invalid registration", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/users", "", map[string]string{"email": "nope", "password": ""})
		require.Equal(t, http.StatusUnprocessableEntity, resp.Status)
		var body models.ErrorResponse
		resp.decode(t, &body)
		assert.Contains(t, body.Fields, "email")
		assert.Contains(t, body.Fields, "password")
	})

	t.Run("json login", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/login", "", map[string]string{"email": "alice@example.com", "password": "wonderland"})
		require.Equal(t, http.StatusOK, resp.Status)
		var tok TokenResponse
		resp.decode(t, &tok)
		assert.Equal(t, "bearer", tok.TokenType)
		assert.NotEmpty(t, tok.AccessToken)
		assert.WithinDuration(t, time.Now().Add(30*time.Minute), tok.ExpiresAt, time.Minute)

		userID, err := srv.tokens.Verify(tok.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, userID)
	})

	t.Run("form login", func(t *testing.T) {
		resp := doForm(t, app, "/login", url.Values{"username": {"alice@example.com"}, "password": {"wonderland"}})
		assert.Equal(t, http.StatusOK, resp.Status, "body: %s", resp.Body)
	})

	t.Run("bad credentials look identical", func(t *testing.T) {
		wrong := doRequest(t, app, http.MethodPost, "/login", "", map[string]string{"email": "alice@example.com", "password": "nope"})
		unknown := doRequest(t, app, http.MethodPost, "/login", "", map[string]string{"email": "ghost@example.com", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, wrong.Status)
		assert.Equal(t, http.StatusUnauthorized, unknown.Status)
		assert.Equal(t, string(wrong.Body), string(unknown.Body))
		assert.Equal(t, "Bearer", wrong.Header.Get("WWW-Authenticate"))
	})

	t.Run("login missing fields", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/login", "", map[string]string{"email": "alice@example.com"})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	})

	t.Run("unknown user", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, doRequest(t, app, http.MethodGet, "/users/9999", "", nil).Status)
		assert.Equal(t, http.StatusUnprocessableEntity, doRequest(t, app, http.MethodGet, "/users/abc", "", nil).Status)
	})
}

func TestPostAndVoteFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	app := srv.App()

	alice := register(t, app, "alice@example.com", "pw-alice")
	register(t, app, "bob@example.com", "pw-bob")
	aliceToken := login(t, app, "alice@example.com", "pw-alice")
	bobToken := login(t, app, "bob@example.com", "pw-bob")

	t.Run("posts require auth", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/posts", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Status)
		assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))

		resp = doRequest(t, app, http.MethodGet, "/posts", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.Status)
		assert.Equal(t, `Bearer error="invalid_token"`, resp.Header.Get("WWW-Authenticate"))
	})

	post := createPost(t, app, aliceToken, "First")
	assert.Equal(t, alice.ID, post.OwnerID)
	assert.Equal(t, "alice@example.com", post.Owner.Email)
	assert.True(t, post.Published)
	postPath := fmt.Sprintf("/posts/%d", post.ID)

	t.Run("create validation", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/posts", aliceToken, map[string]any{"title": "", "content": "x"})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Status)
	})

	t.Run("unpublished draft", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/posts", aliceToken, map[string]any{"title": "Draft", "content": "x", "published": false})
		require.Equal(t, http.StatusCreated, resp.Status)
		var draft models.Post
		resp.decode(t, &draft)
		assert.False(t, draft.Published)

		resp = doRequest(t, app, http.MethodGet, fmt.Sprintf("/posts/%d", draft.ID), aliceToken, nil)
		require.Equal(t, http.StatusOK, resp.Status)
		var stored models.PostWithVotes
		resp.decode(t, &stored)
		require.NotNil(t, stored.Post)
		assert.False(t, stored.Post.Published)
	})

	t.Run("non-owner cannot modify", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPut, postPath, bobToken, map[string]any{"title": "hijack"})
		assert.Equal(t, http.StatusForbidden, resp.Status)
		resp = doRequest(t, app, http.MethodDelete, postPath, bobToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.Status)
	})

	t.Run("update missing post", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPut, "/posts/9999", bobToken, map[string]any{"title": "x"})
		assert.Equal(t, http.StatusNotFound, resp.Status)
	})

	t.Run("owner partial update", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPut, postPath, aliceToken, map[string]any{"title": "First (edited)"})
		require.Equal(t, http.StatusOK, resp.Status, "body: %s", resp.Body)
		var updated models.Post
		resp.decode(t, &updated)
		assert.Equal(t, "First (edited)", updated.Title)
		assert.Equal(t, post.Content, updated.Content)
		assert.Equal(t, alice.ID, updated.OwnerID)
	})

	t.Run("votes", func(t *testing.T) {
		assert.Equal(t, http.StatusCreated, doRequest(t, app, http.MethodPost, "/votes", bobToken, map[string]any{"post_id": post.ID, "dir": 1}).Status)
		assert.Equal(t, http.StatusConflict, doRequest(t, app, http.MethodPost, "/votes", bobToken, map[string]any{"post_id": post.ID, "dir": 1}).Status)
		assert.Equal(t, http.StatusCreated, doRequest(t, app, http.MethodPost, "/votes", aliceToken, map[string]any{"post_id": post.ID, "dir": 1}).Status)

		resp := doRequest(t, app, http.MethodGet, postPath, bobToken, nil)
		require.Equal(t, http.StatusOK, resp.Status)
		var got models.PostWithVotes
		resp.decode(t, &got)
		assert.Equal(t, int64(2), got.Votes)
		assert.Equal(t, alice.ID, got.Post.Owner.ID)

		assert.Equal(t, http.StatusNoContent, doRequest(t, app, http.MethodPost, "/votes", bobToken, map[string]any{"post_id": post.ID, "dir": 0}).Status)
		assert.Equal(t, http.StatusNotFound, doRequest(t, app, http.MethodPost, "/votes", bobToken, map[string]any{"post_id": post.ID, "dir": 0}).Status)
		assert.Equal(t, http.StatusNotFound, doRequest(t, app, http.MethodPost, "/votes", bobToken, map[string]any{"post_id": 9999, "dir": 1}).Status)
		assert.Equal(t, http.StatusUnprocessableEntity, doRequest(t, app, http.MethodPost, "/votes", bobToken, map[string]any{"post_id": post.ID, "dir": 5}).Status)
		assert.Equal(t, http.StatusUnprocessableEntity, doRequest(t, app, http.MethodPost, "/votes", bobToken, map[string]any{"post_id": post.ID}).Status)

		n, err := srv.voteService.CountVotes(t.Context(), post.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, doRequest(t, app, http.MethodDelete, postPath, aliceToken, nil).Status)
		assert.Equal(t, http.StatusNotFound, doRequest(t, app, http.MethodGet, postPath, aliceToken, nil).Status)
		assert.Equal(t, http.StatusNotFound, doRequest(t, app, http.MethodDelete, postPath, aliceToken, nil).Status)

		n, err := srv.voteService.CountVotes(t.Context(), post.ID)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestListPostsFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	app := srv.App()

	register(t, app, "carol@example.com", "pw")
	dave := register(t, app, "dave@example.com", "pw")
	carolToken := login(t, app, "carol@example.com", "pw")
	daveToken := login(t, app, "dave@example.com", "pw")

	var ids []uint
	for i := 0; i < 3; i++ {
		ids = append(ids, createPost(t, app, carolToken, fmt.Sprintf("Gopher %d", i)).ID)
	}
	ids = append(ids, createPost(t, app, daveToken, "100% unrelated").ID)

	list := func(query string) []models.PostWithVotes {
		t.Helper()
		resp := doRequest(t, app, http.MethodGet, "/posts"+query, carolToken, nil)
		require.Equal(t, http.StatusOK, resp.Status, "body: %s", resp.Body)
		var posts []models.PostWithVotes
		resp.decode(t, &posts)
		return posts
	}
	idsOf := func(posts []models.PostWithVotes) []uint {
		out := make([]uint, 0, len(posts))
		for _, p := range posts {
			out = append(out, p.Post.ID)
		}
		return out
	}

	all := list("")
	require.Len(t, all, 4)
	assert.Equal(t, []uint{ids[3], ids[2], ids[1], ids[0]}, idsOf(all))
	for _, p := range all {
		assert.Zero(t, p.Votes)
		assert.NotEmpty(t, p.Post.Owner.Email)
	}

	assert.Equal(t, []uint{ids[3], ids[2]}, idsOf(list("?limit=2")))
	assert.Equal(t, []uint{ids[1], ids[0]}, idsOf(list("?limit=2&skip=2")))
	assert.Equal(t, []uint{ids[1], ids[0]}, idsOf(list("?limit=2&offset=2")))
	assert.Empty(t, list("?skip=50"))

	assert.Equal(t, []uint{ids[2], ids[1], ids[0]}, idsOf(list("?search=GOPHER")))
	assert.Equal(t, []uint{ids[3]}, idsOf(list("?search=%25")))
	assert.Equal(t, []uint{ids[3]}, idsOf(list(fmt.Sprintf("?owner_id=%d", dave.ID))))
}

func TestRequestTimeout(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.requestTimeout = time.Nanosecond
	app := srv.App()

	token, _, err := srv.tokens.Issue(1)
	require.NoError(t, err)

	resp := doRequest(t, app, http.MethodGet, "/posts/1", token, nil)
	assert.Equal(t, http.StatusRequestTimeout, resp.Status, "body: %s", resp.Body)
	var body models.ErrorResponse
	resp.decode(t, &body)
	assert.Equal(t, models.CodeTimeout, body.Code)
}
