package publish

import (
	"context"

	"github.com/commity/commity/fault"
)

const (
	configMarker = "blogs/.config"

	// blockedMessage is surfaced verbatim to the author when the marker is
	// missing.
	blockedMessage = "Please configure Commity in this repo by creating a .config file in the /blogs folder."
)

// verifyConfig checks that the blogs/.config marker exists on branch. Its
// mere existence satisfies the gate; the content is not parsed yet. That is a
// deliberate placeholder policy: the marker will eventually carry settings,
// for now it only proves the repository owner opted in.
func (p *Publisher) verifyConfig(ctx context.Context, store ContentStore, owner, repo, branch string) error {
	_, err := store.GetFile(ctx, owner, repo, branch, configMarker)
	if err == nil {
		return nil
	}
	if fault.Is(err, fault.NotFound) {
		return fault.New(fault.Blocked, blockedMessage)
	}
	return err
}
