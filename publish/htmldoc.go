package publish

import "fmt"

// documentTemplate is the published artifact shape. The style block keeps the
// post readable standalone: typographic defaults, responsive images, a code
// block background, and a blockquote border.
const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: sans-serif; line-height: 1.6; margin: 0 auto; max-width: 720px; padding: 20px; }
        h1, h2, h3 { color: #333; }
        pre { background-color: #eee; padding: 10px; border-radius: 5px; overflow-x: auto; }
        blockquote { border-left: 4px solid #ddd; margin-left: 0; padding-left: 16px; color: #555; }
        img { max-width: 100%%; height: auto; }
    </style>
</head>
<body>
    <h1>%s</h1>
    <div>
        %s
    </div>
</body>
</html>`

// RenderDocument produces the complete HTML document for a post. It is pure:
// identical inputs yield byte-identical output. The title is interpolated
// verbatim into both <title> and <h1> and the body markup is embedded as-is;
// any escaping policy belongs to the caller.
func RenderDocument(title, bodyHTML string) string {
	return fmt.Sprintf(documentTemplate, title, title, bodyHTML)
}
