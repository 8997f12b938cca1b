package publish

import (
	"context"

	"go.uber.org/zap"

	"github.com/commity/commity/fault"
)

const (
	blogsFolder  = "blogs"
	assetsFolder = "blogs/assets"

	msgCreateBlogsFolder  = "feat(blogs): create blogs folder"
	msgCreateAssetsFolder = "feat(blogs): create assets folder"

	// blogsReadme is the placeholder that makes the top-level blogs folder
	// exist. Git has no empty directories, so "the folder exists" means "at
	// least one tracked file lives under the path". The top-level folder gets
	// a human-facing README instead of a bare .gitkeep.
	blogsReadme = `# Blogs

Posts published with Commity live in this folder. Each post is a
self-contained HTML file. Uploaded images are stored under assets/.
`
)

// ensureFolder makes sure folder exists on branch, creating a placeholder
// file when it does not. It is idempotent: a second call observes the file
// written by the first and returns without writing. Only a confirmed absence
// (NotFound) triggers a write; every other probe failure propagates.
func (p *Publisher) ensureFolder(ctx context.Context, store ContentStore, owner, repo, branch, folder string) error {
	_, err := store.GetFile(ctx, owner, repo, branch, folder)
	if err == nil {
		return nil
	}
	if !fault.Is(err, fault.NotFound) {
		return err
	}

	// A bare newline rather than a zero-length body: the contents API wants
	// the content field present, and an empty byte slice is dropped from the
	// request encoding.
	placeholder := folder + "/.gitkeep"
	content := []byte("\n")
	message := msgCreateAssetsFolder
	if folder == blogsFolder {
		placeholder = folder + "/README.md"
		content = []byte(blogsReadme)
		message = msgCreateBlogsFolder
	}

	p.log.Info("provisioning folder",
		zap.String("repo", owner+"/"+repo),
		zap.String("folder", folder))

	if _, err := store.PutFile(ctx, owner, repo, branch, placeholder, content, message, ""); err != nil {
		// A concurrent ensure may have created the placeholder between the
		// probe and the write; the folder exists either way.
		if fault.Is(err, fault.Conflict) {
			return nil
		}
		return err
	}
	return nil
}
