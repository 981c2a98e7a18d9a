package pageconfig

import (
	"embed"
	"io/fs"
)

//go:embed pages/*.yaml
var embeddedPages embed.FS

// EmbeddedFS returns the bundled page configurations. Pass it to LoadFS when
// no pages directory is configured.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedPages, "pages")
	if err != nil {
		panic(err)
	}
	return sub
}
