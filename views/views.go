// Package views holds the built-in page shells. They are intentionally
// plain: the rich-text editing surface is a client-side concern, and
// deployments that want their own branding swap these out via
// commity.ViewFuncs.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/commity/commity"
)

const shell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<link rel="stylesheet" href="/public/app.css">
</head>
<body>
%s
</body>
</html>
`

func page(title, body string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, shell, title, body)
		return err
	})
}

// Default returns the built-in set of views.
func Default() commity.ViewFuncs {
	return commity.ViewFuncs{
		Home:        Home,
		Dashboard:   Dashboard,
		Editor:      Editor,
		NotFound:    NotFound,
		ServerError: ServerError,
	}
}

// Home is the landing page with the GitHub sign-in entry point.
func Home() templ.Component {
	return page("Commity", `<main>
<h1>Commity</h1>
<p>Write blog posts in your browser and publish them straight into a
GitHub repository. No database, no hosting to manage: your repo is the blog.</p>
<p><a href="/auth/login">Connect your GitHub account</a> to start publishing.</p>
</main>`)
}

// Dashboard is the repository picker shell; the client fetches /api/repos.
func Dashboard() templ.Component {
	return page("Your repositories · Commity", `<main id="dashboard" data-repos-url="/api/repos">
<h1>Choose a repository</h1>
<p>Pick the repository your posts should be committed to.</p>
</main>`)
}

// Editor is the authoring shell; the rich-text surface mounts into #editor.
func Editor(csrfToken string) templ.Component {
	return page("New post · Commity", fmt.Sprintf(`<main id="editor"
 data-publish-url="/api/publish" data-assets-url="/api/assets" data-csrf="%s">
<h1>New post</h1>
<noscript>The editor requires JavaScript.</noscript>
</main>`, csrfToken))
}

// NotFound is the 404 page.
func NotFound() templ.Component {
	return page("Not found · Commity", `<main>
<h1>404</h1>
<p>This page does not exist. <a href="/">Back home</a>.</p>
</main>`)
}

// ServerError is the catch-all error page.
func ServerError() templ.Component {
	return page("Something went wrong · Commity", `<main>
<h1>Something went wrong</h1>
<p>Publishing hit an unexpected error. Your repository was not left in a
broken state; try again in a moment.</p>
</main>`)
}
