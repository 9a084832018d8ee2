package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var static embed.FS

// Assets is the browser front end rooted at its index.html.
func Assets() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Handler serves the browser front end. Unknown paths get 404.
func Handler() http.Handler {
	return http.FileServerFS(Assets())
}
