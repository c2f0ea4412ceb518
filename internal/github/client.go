// FilePath: internal/github/client.go
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/apiaryworks/hivedash/internal/config"
	"github.com/apiaryworks/hivedash/internal/errors"
	"github.com/go-resty/resty/v2"
	nuts "github.com/vaudience/go-nuts"
)

// Client fetches hive artifacts and their content fingerprints from a
// GitHub-style content host. It performs no caching of its own.
type Client struct {
	api *resty.Client
	raw *resty.Client
	cfg config.GitHubConfig
}

// contentsResponse is the subset of the contents API response we need
type contentsResponse struct {
	SHA string `json:"sha"`
}

// NewClient creates a new Client for the configured repository
func NewClient(cfg config.GitHubConfig) *Client {
	api := resty.New().
		SetBaseURL(cfg.APIBaseURL).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Accept", "application/vnd.github.v3+json")
	if cfg.Token != "" {
		// The token is only attached to fingerprint lookups. Content
		// fetches go through the public raw path, which is faster and
		// needs no credential.
		api.SetHeader("Authorization", "token "+cfg.Token)
	}

	raw := resty.New().
		SetBaseURL(cfg.RawBaseURL).
		SetTimeout(cfg.RequestTimeout)

	return &Client{api: api, raw: raw, cfg: cfg}
}

// FetchFingerprint returns the content SHA of the named artifact. An
// absent artifact yields an empty fingerprint and no error; the change
// detector treats an empty fingerprint as "no new information".
func (c *Client) FetchFingerprint(ctx context.Context, name string) (string, error) {
	resp, err := c.api.R().
		SetContext(ctx).
		SetResult(&contentsResponse{}).
		Get(fmt.Sprintf("/repos/%s/%s/contents/%s", c.cfg.Owner, c.cfg.Repo, name))
	if err != nil {
		return "", errors.NewTransientError(
			fmt.Sprintf("fingerprint lookup for %s failed", name), err)
	}

	switch {
	case resp.StatusCode() == http.StatusOK:
		contents, ok := resp.Result().(*contentsResponse)
		if !ok || contents.SHA == "" {
			return "", errors.NewParseError(
				fmt.Sprintf("fingerprint response for %s has no sha", name), nil)
		}
		return contents.SHA, nil
	case resp.StatusCode() == http.StatusNotFound:
		nuts.L.Debugf("[GitHub] Artifact %s not found during fingerprint lookup", name)
		return "", nil
	default:
		return "", errors.NewTransientError(
			fmt.Sprintf("fingerprint lookup for %s returned status %d", name, resp.StatusCode()), nil)
	}
}

// FetchArtifact downloads the raw content of the named artifact and
// verifies it is non-empty, valid JSON.
func (c *Client) FetchArtifact(ctx context.Context, name string) ([]byte, error) {
	resp, err := c.raw.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/%s/%s/%s/%s", c.cfg.Owner, c.cfg.Repo, c.cfg.Branch, name))
	if err != nil {
		return nil, errors.NewTransientError(
			fmt.Sprintf("fetching %s failed", name), err)
	}

	switch {
	case resp.StatusCode() == http.StatusOK:
		// Fall through to content validation below.
	case resp.StatusCode() == http.StatusNotFound:
		return nil, errors.NewNotFoundError(
			fmt.Sprintf("artifact %s not found in repository %s/%s", name, c.cfg.Owner, c.cfg.Repo), nil)
	default:
		return nil, errors.NewTransientError(
			fmt.Sprintf("fetching %s returned status %d", name, resp.StatusCode()), nil)
	}

	body := resp.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, errors.NewParseError(
			fmt.Sprintf("artifact %s is empty", name), nil)
	}
	if !json.Valid(body) {
		return nil, errors.NewParseError(
			fmt.Sprintf("artifact %s is not valid JSON", name), nil)
	}

	nuts.L.Debugf("[GitHub] Fetched artifact %s (%d bytes)", name, len(body))
	return body, nil
}
