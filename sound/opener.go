package sound

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

// Opener fetches the encoded bytes behind a descriptor's source locator.
type Opener interface {
	Open(ctx context.Context, source string) (io.ReadCloser, error)
}

// DirOpener opens sources relative to a file system root.
type DirOpener struct {
	FS fs.FS
}

// NewDirOpener roots sources at dir on the local disk.
func NewDirOpener(dir string) DirOpener {
	return DirOpener{FS: os.DirFS(dir)}
}

func (o DirOpener) Open(_ context.Context, source string) (io.ReadCloser, error) {
	name := path.Clean(strings.TrimPrefix(source, "/"))
	f, err := o.FS.Open(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// HTTPOpener fetches sources over http(s). Any non-2xx status is an error.
type HTTPOpener struct {
	Client *http.Client
}

func (o HTTPOpener) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", source, resp.Status)
	}
	return resp.Body, nil
}

// MultiOpener sends http(s) URLs to Remote and everything else to Local.
type MultiOpener struct {
	Local  Opener
	Remote Opener
}

func (o MultiOpener) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	if isRemote(source) {
		if o.Remote == nil {
			return nil, fmt.Errorf("no remote opener for %s", source)
		}
		return o.Remote.Open(ctx, source)
	}
	if o.Local == nil {
		return nil, fmt.Errorf("no local opener for %s", source)
	}
	return o.Local.Open(ctx, source)
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
