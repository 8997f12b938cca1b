// Package contents wraps the GitHub repository contents API. It is the only
// layer that talks to the hosting API; everything above it works with Files
// and kinded errors. The credential is passed in at construction and is never
// read from ambient state.
package contents

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/commity/commity/fault"
)

const (
	// GitHub allows ~5000 authenticated requests per hour; pacing well below
	// that keeps a burst of uploads from tripping secondary rate limits.
	requestInterval = 100 * time.Millisecond
	requestBurst    = 3

	branchCacheSize = 256
	branchCacheTTL  = 5 * time.Minute

	listReposPageSize = 100
)

// File is the stored state of a single path in a repository branch. SHA is
// the revision token the API requires to accept an update of an existing
// file.
type File struct {
	Path    string
	SHA     string
	Content []byte
	IsDir   bool
}

// Repo is the subset of repository metadata the dashboard needs.
type Repo struct {
	Owner         string
	Name          string
	Description   string
	DefaultBranch string
	Private       bool
	HTMLURL       string
}

// Client performs content reads and writes against GitHub on behalf of a
// single user token. It never retries and never reinterprets failures beyond
// mapping HTTP statuses onto the fault taxonomy.
type Client struct {
	gh       *github.Client
	limiter  *rate.Limiter
	branches *expirable.LRU[string, string]
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root (used in tests).
// The URL must end with a trailing slash to be accepted by go-github; one is
// appended if missing.
func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		if u, err := url.Parse(raw); err == nil {
			c.gh.BaseURL = u
			c.gh.UploadURL = u
		}
	}
}

// WithHTTPClient sets a custom underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.gh = github.NewClient(hc)
	}
}

// NewClient creates a Client authenticated with the given bearer token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		gh:       github.NewClient(nil),
		limiter:  rate.NewLimiter(rate.Every(requestInterval), requestBurst),
		branches: expirable.NewLRU[string, string](branchCacheSize, nil, branchCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.gh = c.gh.WithAuthToken(token)
	return c
}

// GetFile reads the current content and revision token of path on branch.
// A missing path yields a fault.NotFound error; a directory path yields a
// File with IsDir set, since presence of any tracked file under a prefix is
// what makes a "folder" exist in Git.
func (c *Client) GetFile(ctx context.Context, owner, repo, branch, path string) (*File, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	fileContent, dirContent, _, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, &github.RepositoryContentGetOptions{
		Ref: branch,
	})
	if err != nil {
		return nil, mapError(err, path)
	}
	if dirContent != nil {
		return &File{Path: path, IsDir: true}, nil
	}
	raw, err := fileContent.GetContent()
	if err != nil {
		return nil, fault.Wrap(fault.Upstream, "decode file content", err)
	}
	return &File{
		Path:    fileContent.GetPath(),
		SHA:     fileContent.GetSHA(),
		Content: []byte(raw),
	}, nil
}

// PutFile creates (empty sha) or updates (sha from an immediately prior read)
// path on branch in a single commit carrying message. Every successful call
// is exactly one commit on the branch.
func (c *Client) PutFile(ctx context.Context, owner, repo, branch, path string, content []byte, message, sha string) (*File, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: content,
		Branch:  github.String(branch),
	}
	var (
		resp *github.RepositoryContentResponse
		err  error
	)
	if sha != "" {
		opts.SHA = github.String(sha)
		resp, _, err = c.gh.Repositories.UpdateFile(ctx, owner, repo, path, opts)
	} else {
		resp, _, err = c.gh.Repositories.CreateFile(ctx, owner, repo, path, opts)
	}
	if err != nil {
		return nil, mapError(err, path)
	}
	return &File{
		Path:    path,
		SHA:     resp.GetContent().GetSHA(),
		Content: content,
	}, nil
}

// DefaultBranch resolves the default branch of a repository. Results are
// cached briefly; repository metadata is the only thing safe to cache here,
// folder and marker probes never are.
func (c *Client) DefaultBranch(ctx context.Context, owner, repo string) (string, error) {
	key := owner + "/" + repo
	if branch, ok := c.branches.Get(key); ok {
		return branch, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	r, _, err := c.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return "", mapError(err, owner+"/"+repo)
	}
	branch := r.GetDefaultBranch()
	c.branches.Add(key, branch)
	return branch, nil
}

// ListRepos returns the repositories the authenticated user can push to,
// most recently updated first.
func (c *Client) ListRepos(ctx context.Context) ([]Repo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	repos, _, err := c.gh.Repositories.ListByAuthenticatedUser(ctx, &github.RepositoryListByAuthenticatedUserOptions{
		Sort: "updated",
		ListOptions: github.ListOptions{
			PerPage: listReposPageSize,
		},
	})
	if err != nil {
		return nil, mapError(err, "repositories")
	}
	out := make([]Repo, 0, len(repos))
	for _, r := range repos {
		out = append(out, Repo{
			Owner:         r.GetOwner().GetLogin(),
			Name:          r.GetName(),
			Description:   r.GetDescription(),
			DefaultBranch: r.GetDefaultBranch(),
			Private:       r.GetPrivate(),
			HTMLURL:       r.GetHTMLURL(),
		})
	}
	return out, nil
}

// mapError translates a go-github error into the fault taxonomy. Statuses
// outside the mapped set stay opaque Upstream failures carrying GitHub's own
// message when it provided one.
func mapError(err error, what string) error {
	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		return fault.Wrap(fault.Upstream, "GitHub rate limit exceeded", err)
	}
	var ge *github.ErrorResponse
	if errors.As(err, &ge) && ge.Response != nil {
		switch ge.Response.StatusCode {
		case http.StatusNotFound:
			return fault.Wrap(fault.NotFound, what+" not found", err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fault.Wrap(fault.Unauthorized, "GitHub rejected the credential for "+what, err)
		case http.StatusConflict:
			return fault.Wrap(fault.Conflict, what+" changed upstream since it was read", err)
		}
		msg := ge.Message
		if msg == "" {
			msg = "GitHub request failed"
		}
		return fault.Wrap(fault.Upstream, msg, err)
	}
	return fault.Wrap(fault.Upstream, "GitHub request failed", err)
}
