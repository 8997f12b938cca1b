package commity

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/commity/commity/fault"
	"github.com/commity/commity/publish"
)

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (a *App) handleHome(c echo.Context) error {
	return Render(c, a.Views.Home())
}

func (a *App) handleDashboard(c echo.Context) error {
	if bearerToken(c) == "" {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return Render(c, a.Views.Dashboard())
}

func (a *App) handleEditor(c echo.Context) error {
	if bearerToken(c) == "" {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return Render(c, a.Views.Editor(CsrfToken(c)))
}

func (a *App) handleListRepos(c echo.Context) error {
	token := bearerToken(c)
	if token == "" {
		return fault.New(fault.Unauthorized, "Unauthorized")
	}
	repos, err := a.newStore(token).ListRepos(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"repos": repos})
}

// publishRequest is the payload the editing surface posts. Branch is
// optional; an empty value means the repository's default branch.
type publishRequest struct {
	Owner   string `json:"owner"`
	Repo    string `json:"repo"`
	Branch  string `json:"branch"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (a *App) handlePublish(c echo.Context) error {
	token := bearerToken(c)
	if token == "" {
		return fault.New(fault.Unauthorized, "Unauthorized")
	}
	if !a.writeLimiter.Allow(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many publish attempts. Try again later.")
	}

	var req publishRequest
	if err := c.Bind(&req); err != nil {
		return fault.New(fault.Validation, "Invalid request body")
	}

	res, err := a.publisher.Publish(c.Request().Context(), a.newStore(token), publish.PostRequest{
		Owner:    req.Owner,
		Repo:     req.Repo,
		Branch:   req.Branch,
		Title:    req.Title,
		BodyHTML: req.Content,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Blog posted successfully!",
		"fileUrl": res.URL,
		"slug":    res.Slug,
		"path":    res.Path,
		"branch":  res.Branch,
	})
}

func (a *App) handleUploadAsset(c echo.Context) error {
	token := bearerToken(c)
	if token == "" {
		return fault.New(fault.Unauthorized, "Unauthorized")
	}
	if !a.writeLimiter.Allow(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many uploads. Try again later.")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return fault.New(fault.Validation, "No image file provided")
	}
	if file.Size > a.Config.MaxUploadBytes {
		return fault.New(fault.Validation, "File too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}

	res, err := a.publisher.PublishAsset(c.Request().Context(), a.newStore(token), publish.AssetRequest{
		Owner:    c.FormValue("owner"),
		Repo:     c.FormValue("repo"),
		Branch:   c.FormValue("branch"),
		FileName: file.Filename,
		Data:     data,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Image uploaded successfully!",
		"imageUrl": res.URL,
		"markdown": res.Markdown,
		"path":     res.Path,
	})
}

// statusForKind maps the error taxonomy onto HTTP statuses. Blocked shares
// 400 with validation: both mean "fix your input/repository and retry".
func statusForKind(k fault.Kind) int {
	switch k {
	case fault.Validation, fault.Blocked:
		return http.StatusBadRequest
	case fault.Unauthorized:
		return http.StatusUnauthorized
	case fault.NotFound:
		return http.StatusNotFound
	case fault.Conflict:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	isAPI := strings.HasPrefix(c.Request().URL.Path, "/api/")

	var fe *fault.Error
	if errors.As(err, &fe) {
		code := statusForKind(fe.Kind)
		if code >= 500 {
			a.Log.Error("upstream failure", zap.Error(err))
		}
		if isAPI {
			_ = c.JSON(code, echo.Map{"error": fault.UserMessage(err)})
		} else {
			_ = RenderStatus(c, code, a.Views.ServerError())
		}
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if isAPI {
			_ = c.JSON(he.Code, echo.Map{"error": he.Message})
			return
		}
		if he.Code == http.StatusNotFound {
			_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
			return
		}
		a.Echo.DefaultHTTPErrorHandler(err, c)
		return
	}

	a.Log.Error("server error", zap.Error(err))
	if isAPI {
		_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal Server Error"})
		return
	}
	_ = RenderStatus(c, http.StatusInternalServerError, a.Views.ServerError())
}
