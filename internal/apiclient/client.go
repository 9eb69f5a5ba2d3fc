package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/provamaster/provamaster/internal/catalog"
	"github.com/provamaster/provamaster/internal/practice"
)

// APIError carries the gateway's status and message through to callers.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// Client is a typed HTTP client for the gateway. It satisfies both
// practice.QuestionSource and practice.Store, so the session engine runs
// against the remote API the way the original client ran against its hosted
// backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func New(baseURL string, httpClient *http.Client) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8080"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// SetToken installs the bearer token used on subsequent requests.
func (c *Client) SetToken(tok string) { c.token = tok }

type LoginResult struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	Role        string `json:"role"`
}

func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var out LoginResult
	err := c.doJSON(ctx, http.MethodPost, "/auth/login",
		map[string]string{"username": username, "password": password}, &out)
	if err != nil {
		return LoginResult{}, err
	}
	c.token = out.AccessToken
	return out, nil
}

func (c *Client) Register(ctx context.Context, username, password string) (LoginResult, error) {
	var out LoginResult
	err := c.doJSON(ctx, http.MethodPost, "/auth/register",
		map[string]string{"username": username, "password": password}, &out)
	if err != nil {
		return LoginResult{}, err
	}
	c.token = out.AccessToken
	return out, nil
}

type SessionCheck struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	ExpiresAt int64  `json:"expires_at"`
}

// CurrentSession is the one-shot auth check backing the auth gate.
func (c *Client) CurrentSession(ctx context.Context) (SessionCheck, error) {
	var out SessionCheck
	err := c.doJSON(ctx, http.MethodGet, "/auth/session", nil, &out)
	return out, err
}

// SignOut is idempotent; a failure needs no rollback.
func (c *Client) SignOut(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// ---- catalog reads ----

func (c *Client) ListPackages(ctx context.Context) ([]catalog.ExamPackage, error) {
	var out []catalog.ExamPackage
	err := c.doJSON(ctx, http.MethodGet, "/packages", nil, &out)
	return out, err
}

func (c *Client) ListTopics(ctx context.Context, packageID string) ([]catalog.Topic, error) {
	var out []catalog.Topic
	err := c.doJSON(ctx, http.MethodGet, "/packages/"+url.PathEscape(packageID)+"/topics", nil, &out)
	return out, err
}

func (c *Client) GetTopic(ctx context.Context, id string) (catalog.Topic, error) {
	var out catalog.Topic
	err := c.doJSON(ctx, http.MethodGet, "/topics/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) ListQuestions(ctx context.Context, topicIDs []string) ([]catalog.Question, error) {
	q := url.Values{}
	q.Set("topic_ids", strings.Join(topicIDs, ","))
	var out []catalog.Question
	err := c.doJSON(ctx, http.MethodGet, "/questions?"+q.Encode(), nil, &out)
	return out, err
}

// ---- practice writes (practice.Store) ----

func (c *Client) CreateSession(ctx context.Context, s practice.Session) (practice.Session, error) {
	var out practice.Session
	err := c.doJSON(ctx, http.MethodPost, "/sessions", map[string]any{
		"topic_id":        s.TopicID,
		"total_questions": s.TotalQuestions,
	}, &out)
	return out, err
}

func (c *Client) GetSession(ctx context.Context, id string) (practice.Session, error) {
	var out practice.Session
	err := c.doJSON(ctx, http.MethodGet, "/sessions/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) InsertAttempt(ctx context.Context, a practice.Attempt) error {
	return c.doJSON(ctx, http.MethodPost, "/sessions/"+url.PathEscape(a.SessionID)+"/attempts", a, nil)
}

func (c *Client) IncrementCorrect(ctx context.Context, sessionID string) error {
	return c.doJSON(ctx, http.MethodPost, "/sessions/"+url.PathEscape(sessionID)+"/increment-correct", nil, nil)
}

func (c *Client) CompleteSession(ctx context.Context, sessionID string, correctAnswers int, completedAt time.Time) error {
	body := map[string]any{"correct_answers": correctAnswers}
	if !completedAt.IsZero() {
		body["completed_at"] = completedAt.Unix()
	}
	return c.doJSON(ctx, http.MethodPost, "/sessions/"+url.PathEscape(sessionID)+"/complete", body, nil)
}

func (c *Client) ListAttempts(ctx context.Context, sessionID string) ([]practice.Attempt, error) {
	var out []practice.Attempt
	err := c.doJSON(ctx, http.MethodGet, "/sessions/"+url.PathEscape(sessionID)+"/attempts", nil, &out)
	return out, err
}

func (c *Client) CorrectCount(ctx context.Context, sessionID string) (int, error) {
	attempts, err := c.ListAttempts(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, a := range attempts {
		if a.IsCorrect {
			n++
		}
	}
	return n, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
