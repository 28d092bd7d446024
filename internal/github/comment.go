package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultAPIURL = "https://api.github.com"

	defaultTimeout = 30 * time.Second
	maxErrorBody   = 512
)

// CommentClient posts issue comments through the GitHub REST API. Requests
// are sent once, failures are returned to the caller.
type CommentClient struct {
	apiURL     string
	token      string
	httpClient *http.Client
}

type commentRequest struct {
	Body string `json:"body"`
}

type commentResponse struct {
	ID      int64  `json:"id"`
	HTMLURL string `json:"html_url"`
}

func NewCommentClient(apiURL, token string, httpClient *http.Client) *CommentClient {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &CommentClient{
		apiURL:     strings.TrimSuffix(apiURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

// SplitRepository splits an owner/repo slug.
func SplitRepository(repository string) (owner, repo string, err error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/repo", repository)
	}
	return parts[0], parts[1], nil
}

// CreateComment adds body as a comment to the pull request number in
// repository (owner/repo) and returns the comment URL.
func (c *CommentClient) CreateComment(ctx context.Context, repository string, number int, body string) (string, error) {
	owner, repo, err := SplitRepository(repository)
	if err != nil {
		return "", err
	}
	if number <= 0 {
		return "", fmt.Errorf("invalid pull request number %d", number)
	}

	payload, err := json.Marshal(commentRequest{Body: body})
	if err != nil {
		return "", fmt.Errorf("unable to encode comment: %w", err)
	}

	url := fmt.Sprintf("%s/repos/%s/%s/issues/%d/comments", c.apiURL, owner, repo, number)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("unable to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log.Debugf("CreateComment(): POST %s", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("unable to post comment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("unexpected status %d posting comment: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out commentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("unable to decode comment response: %w", err)
	}
	return out.HTMLURL, nil
}
