package commity

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"
)

const (
	sessionTokenKey = "access_token"
	sessionStateKey = "oauth_state"
)

// oauthConfig builds the GitHub OAuth exchange. The repo scope is needed to
// commit into the user's repositories.
func (a *App) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     a.Config.GitHubClientID,
		ClientSecret: a.Config.GitHubClientSecret,
		Endpoint:     oauthgithub.Endpoint,
		RedirectURL:  a.Config.OAuthCallbackURL,
		Scopes:       []string{"repo", "read:user"},
	}
}

func (a *App) handleLogin(c echo.Context) error {
	state, err := randomState()
	if err != nil {
		return err
	}
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values[sessionStateKey] = state
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, a.oauthConfig().AuthCodeURL(state))
}

func (a *App) handleCallback(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	wantState, _ := sess.Values[sessionStateKey].(string)
	delete(sess.Values, sessionStateKey)

	if wantState == "" || c.QueryParam("state") != wantState {
		return c.Redirect(http.StatusSeeOther, "/?error=state_mismatch")
	}

	token, err := a.oauthConfig().Exchange(c.Request().Context(), c.QueryParam("code"))
	if err != nil {
		a.Log.Warn("oauth exchange failed", zap.Error(err))
		return c.Redirect(http.StatusSeeOther, "/?error=oauth_exchange")
	}

	sess.Values[sessionTokenKey] = token.AccessToken
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (a *App) handleLogout(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Options.MaxAge = -1
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// bearerToken returns the credential for the current request: an explicit
// Authorization header wins, the session token is the fallback. The token is
// handed down the call chain explicitly, never read from ambient state again.
func bearerToken(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		if strings.HasPrefix(h, "Bearer ") {
			return strings.TrimPrefix(h, "Bearer ")
		}
	}
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return ""
	}
	token, _ := sess.Values[sessionTokenKey].(string)
	return token
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
