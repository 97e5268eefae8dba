package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/cyberspace/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *HTTPClient {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return NewHTTPClient(ts.URL+"/", time.Second)
}

func TestRegister_SendsMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "ada@example.com", r.FormValue("email_id"))
		assert.Equal(t, "pw", r.FormValue("password"))

		f, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "me.jpg", hdr.Filename)
		assert.Equal(t, "jpeg", string(b))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":7,"email_id":"ada@example.com"}`))
	})

	p, err := c.Register(context.Background(), models.SignUp{
		Email:    "ada@example.com",
		Password: []byte("pw"),
		Image:    &models.Attachment{Name: "me.jpg", Content: strings.NewReader("jpeg")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("password") != "right" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Incorrect email or password"}`))
			return
		}
		assert.Equal(t, "ada@example.com", r.PostForm.Get("username"))
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer"}`))
	})

	tok, err := c.Login(context.Background(), "ada@example.com", []byte("right"))
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)

	_, err = c.Login(context.Background(), "ada@example.com", []byte("wrong"))
	require.ErrorIs(t, err, ErrUnauthorized)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Incorrect email or password", apiErr.Detail)
}

func TestResetPassword_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "123456", body["otp"])
		assert.Equal(t, "a", body["new_password"])
		assert.Equal(t, "b", body["confirm_password"])

		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Passwords do not match"}`))
	})

	err := c.ResetPassword(context.Background(), "123456", []byte("a"), []byte("b"))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Passwords do not match (400)", apiErr.Error())
}

func TestProfile_SendsBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":1,"seminars":3,"webinars":1}`))
	})

	p, err := c.Profile(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, 3, p.Seminars)
	assert.Equal(t, 1, p.Webinars)
}

func TestRegisterEvent(t *testing.T) {
	var gotPath string
	var got map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":9}`))
	})

	out, err := c.RegisterEvent(context.Background(), "tok", models.Webinar, models.Event{
		FirstName: "Ada", Email: "ada@example.com", PhoneNumber: "555", Topic: "Go",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), out.ID)
	assert.Equal(t, "/webinar/", gotPath)
	assert.Equal(t, "Ada", got["first_name"])
	assert.Equal(t, "ada@example.com", got["email_id"])
	assert.Equal(t, "555", got["phone_number"])
	assert.Equal(t, "Go", got["topic"])

	_, err = c.RegisterEvent(context.Background(), "tok", models.EventKind("party"), models.Event{})
	assert.Error(t, err)
}

func TestSubmitPaper(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "On Go", r.FormValue("paper_title"))
		assert.Equal(t, "S-1843", r.FormValue("student_id"))
		assert.Equal(t, "ada@example.com", r.FormValue("email_id"))
		_, hdr, err := r.FormFile("paper_pdf")
		require.NoError(t, err)
		assert.Equal(t, "p.pdf", hdr.Filename)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":4}`))
	})

	out, err := c.SubmitPaper(context.Background(), "tok", models.Paper{
		Email:     "ada@example.com",
		StudentID: "S-1843",
		Title:     "On Go",
		PDF:       &models.Attachment{Name: "p.pdf", Content: strings.NewReader("%PDF")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), out.ID)
}

func TestPing(t *testing.T) {
	healthy := true
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthz", r.URL.Path)
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})

	require.NoError(t, c.Ping(context.Background()))

	healthy = false
	assert.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestTransportError_IsUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()
	c := NewHTTPClient(ts.URL, time.Second)

	err := c.ForgotPassword(context.Background(), "a@b.c")
	assert.True(t, errors.Is(err, ErrUnavailable), "got %v", err)
}
