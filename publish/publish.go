// Package publish holds the orchestration core: it provisions the blogs
// folder, checks the configuration gate, serializes the post, and issues the
// single commit that makes a publish durable. All remote state lives in the
// hosting system; the package keeps no state of its own between calls.
package publish

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/commity/commity/contents"
	"github.com/commity/commity/fault"
)

// ContentStore is the slice of the hosting API the orchestrator consumes.
// *contents.Client satisfies it; tests substitute an in-memory fake.
type ContentStore interface {
	GetFile(ctx context.Context, owner, repo, branch, path string) (*contents.File, error)
	PutFile(ctx context.Context, owner, repo, branch, path string, content []byte, message, sha string) (*contents.File, error)
	DefaultBranch(ctx context.Context, owner, repo string) (string, error)
}

// Publisher sequences a publish request into remote calls. Each step is
// strictly sequential; the first failure aborts and surfaces to the caller.
// Steps already taken are not rolled back.
type Publisher struct {
	log *zap.Logger
}

// NewPublisher creates a Publisher. A nil logger disables logging.
func NewPublisher(log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{log: log}
}

// PostRequest describes one blog post to publish.
type PostRequest struct {
	Owner    string
	Repo     string
	Branch   string // empty means the repository default branch
	Title    string
	BodyHTML string
}

// PostResult reports where the published post landed.
type PostResult struct {
	Slug   string `json:"slug"`
	Path   string `json:"path"`
	Branch string `json:"branch"`
	URL    string `json:"fileUrl"`
}

// Publish turns a post into a committed HTML file under blogs/ and returns
// its raw-content URL. The sequence is: validate, resolve branch, ensure the
// blogs folder, verify the configuration marker, serialize, commit. At most
// one content write is attempted per call; there is no retry on conflict.
func (p *Publisher) Publish(ctx context.Context, store ContentStore, req PostRequest) (*PostResult, error) {
	slug, err := validatePost(req)
	if err != nil {
		return nil, err
	}

	branch := req.Branch
	if branch == "" {
		branch, err = store.DefaultBranch(ctx, req.Owner, req.Repo)
		if err != nil {
			return nil, err
		}
	}

	if err := p.ensureFolder(ctx, store, req.Owner, req.Repo, branch, blogsFolder); err != nil {
		return nil, err
	}
	if err := p.verifyConfig(ctx, store, req.Owner, req.Repo, branch); err != nil {
		return nil, err
	}

	path := blogsFolder + "/" + slug + ".html"
	doc := RenderDocument(req.Title, req.BodyHTML)

	// Re-read the target so republishing an existing slug is an explicit
	// update carrying the current revision token rather than a blind create.
	sha := ""
	if existing, err := store.GetFile(ctx, req.Owner, req.Repo, branch, path); err == nil {
		sha = existing.SHA
	} else if !fault.Is(err, fault.NotFound) {
		return nil, err
	}

	message := fmt.Sprintf("chore(blog): add %s", req.Title)
	if _, err := store.PutFile(ctx, req.Owner, req.Repo, branch, path, []byte(doc), message, sha); err != nil {
		return nil, err
	}

	p.log.Info("post published",
		zap.String("repo", req.Owner+"/"+req.Repo),
		zap.String("branch", branch),
		zap.String("path", path))

	return &PostResult{
		Slug:   slug,
		Path:   path,
		Branch: branch,
		URL:    RawURL(req.Owner, req.Repo, branch, path),
	}, nil
}

// RawURL builds the public raw-content URL for a committed path. Path
// segments are not escaped; the slug algorithm already restricts them to
// lowercase alphanumerics and hyphens.
func RawURL(owner, repo, branch, path string) string {
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", owner, repo, branch, path)
}

// validatePost checks required inputs before any remote call is made and
// returns the derived slug.
func validatePost(req PostRequest) (string, error) {
	switch {
	case req.Owner == "" || req.Repo == "":
		return "", fault.New(fault.Validation, "Missing repository information")
	case req.Title == "":
		return "", fault.New(fault.Validation, "Missing blog title")
	case req.BodyHTML == "":
		return "", fault.New(fault.Validation, "Missing blog content")
	}
	slug := Slugify(req.Title)
	if slug == "" {
		return "", fault.New(fault.Validation, "Title must contain at least one letter or digit")
	}
	return slug, nil
}
