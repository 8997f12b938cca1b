package publish

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/commity/commity/fault"
)

const (
	maxImageWidth = 1200
	jpegQuality   = 85
)

// AssetRequest describes one raw file to store under blogs/assets.
type AssetRequest struct {
	Owner    string
	Repo     string
	Branch   string // empty means the repository default branch
	FileName string // original name, only its extension is kept
	Data     []byte
}

// AssetResult reports where the asset landed, with a ready-to-insert
// Markdown reference for the editor.
type AssetResult struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	URL      string `json:"imageUrl"`
	Markdown string `json:"markdown"`
}

// PublishAsset stores a file under blogs/assets with a randomized unique
// name that keeps the original extension, committing it in one write. Asset
// names are random rather than content-addressed: collisions are negligible
// in the UUID space and deduplication is not a goal.
func (p *Publisher) PublishAsset(ctx context.Context, store ContentStore, req AssetRequest) (*AssetResult, error) {
	if err := validateAsset(req); err != nil {
		return nil, err
	}

	branch := req.Branch
	var err error
	if branch == "" {
		branch, err = store.DefaultBranch(ctx, req.Owner, req.Repo)
		if err != nil {
			return nil, err
		}
	}

	if err := p.ensureFolder(ctx, store, req.Owner, req.Repo, branch, assetsFolder); err != nil {
		return nil, err
	}

	data := optimizeImage(req.FileName, req.Data)

	name := uuid.NewString()
	if ext := strings.ToLower(filepath.Ext(req.FileName)); ext != "" {
		name += ext
	}
	path := assetsFolder + "/" + name

	message := fmt.Sprintf("feat(assets): add %s", req.FileName)
	if _, err := store.PutFile(ctx, req.Owner, req.Repo, branch, path, data, message, ""); err != nil {
		return nil, err
	}

	p.log.Info("asset published",
		zap.String("repo", req.Owner+"/"+req.Repo),
		zap.String("branch", branch),
		zap.String("path", path),
		zap.Int("bytes", len(data)))

	return &AssetResult{
		Name:     name,
		Path:     path,
		URL:      RawURL(req.Owner, req.Repo, branch, path),
		Markdown: fmt.Sprintf("![%s](/%s)", req.FileName, path),
	}, nil
}

func validateAsset(req AssetRequest) error {
	switch {
	case req.Owner == "" || req.Repo == "":
		return fault.New(fault.Validation, "Missing repository information")
	case req.FileName == "":
		return fault.New(fault.Validation, "Missing file name")
	case len(req.Data) == 0:
		return fault.New(fault.Validation, "Missing file data")
	}
	return nil
}

// optimizeImage downscales oversized JPEG and PNG images to maxImageWidth,
// re-encoding in the original format so the file extension stays truthful.
// Anything that is not a decodable JPEG/PNG, or already narrow enough, passes
// through untouched.
func optimizeImage(name string, data []byte) []byte {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return data
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxImageWidth {
		return data
	}

	newH := h * maxImageWidth / w
	dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	case "png":
		err = png.Encode(&buf, dst)
	default:
		return data
	}
	if err != nil {
		return data
	}
	return buf.Bytes()
}
