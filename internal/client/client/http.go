package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/cyberspace/internal/client/models"
	"github.com/dmitrijs2005/cyberspace/internal/common"
	"github.com/dmitrijs2005/cyberspace/internal/netx"
)

// HTTPClient is the net/http implementation of Client.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) url(path string) string {
	return c.baseURL + path
}

func (c *HTTPClient) Register(ctx context.Context, form models.SignUp) (*models.Profile, error) {
	fields := map[string]string{
		"first_name":    form.FirstName,
		"last_name":     form.LastName,
		"email_id":      form.Email,
		"mobile_number": form.MobileNumber,
		"college_name":  form.CollegeName,
		"password":      string(form.Password),
	}

	req, err := netx.NewMultipartRequest(ctx, c.url("/users/"), fields, filePart("image", form.Image))
	if err != nil {
		return nil, err
	}

	var out models.Profile
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (string, error) {
	form := url.Values{"username": {email}, "password": {string(password)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/login"), strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out tokenResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("login: empty access token")
	}
	return out.AccessToken, nil
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) error {
	req, err := c.jsonRequest(ctx, "/forgot-password/", "", map[string]string{"email_id": email})
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, code string, newPassword, confirmPassword []byte) error {
	req, err := c.jsonRequest(ctx, "/reset-password/", "", map[string]string{
		"otp":              code,
		"new_password":     string(newPassword),
		"confirm_password": string(confirmPassword),
	})
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *HTTPClient) Profile(ctx context.Context, token string) (*models.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/user/profile"), nil)
	if err != nil {
		return nil, err
	}
	setBearer(req, token)

	var out models.Profile
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RegisterEvent(ctx context.Context, token string, kind models.EventKind, form models.Event) (*models.Created, error) {
	if kind != models.Seminar && kind != models.Webinar {
		return nil, fmt.Errorf("unknown event kind %q", kind)
	}
	return c.postCreated(ctx, "/"+string(kind)+"/", token, form)
}

func (c *HTTPClient) RegisterInternship(ctx context.Context, token string, form models.Internship) (*models.Created, error) {
	return c.postCreated(ctx, "/virtualInternship/", token, form)
}

func (c *HTTPClient) SubmitPaper(ctx context.Context, token string, form models.Paper) (*models.Created, error) {
	fields := map[string]string{
		"first_name":     form.FirstName,
		"last_name":      form.LastName,
		"email_id":       form.Email,
		"phone_number":   form.PhoneNumber,
		"student_id":     form.StudentID,
		"paper_title":    form.Title,
		"abstract":       form.Abstract,
		"keywords":       form.Keywords,
		"paper_category": form.Category,
	}

	req, err := netx.NewMultipartRequest(ctx, c.url("/research-paper/"), fields, filePart("paper_pdf", form.PDF))
	if err != nil {
		return nil, err
	}
	setBearer(req, token)

	var out models.Created
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping reports whether the API answers its health check.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/healthz"), nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *HTTPClient) postCreated(ctx context.Context, path, token string, body any) (*models.Created, error) {
	req, err := c.jsonRequest(ctx, path, token, body)
	if err != nil {
		return nil, err
	}

	var out models.Created
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) jsonRequest(ctx context.Context, path, token string, body any) (*http.Request, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	setBearer(req, token)
	return req, nil
}

// do sends req and decodes a 2xx body into out when out is non-nil.
func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body struct {
		Detail string `json:"detail"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body)

	apiErr := &APIError{Status: resp.StatusCode, Detail: body.Detail}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", ErrUnauthorized, apiErr)
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %w", ErrUnavailable, apiErr)
	}
	return apiErr
}

func setBearer(req *http.Request, token string) {
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}
}

func filePart(field string, a *models.Attachment) *netx.FilePart {
	if a == nil {
		return nil
	}
	return &netx.FilePart{Field: field, FileName: a.Name, Content: a.Content}
}
