package container

import (
	"net/url"

	"github.com/frozenfs/frozenfs/errs"
	"github.com/frozenfs/frozenfs/internal/mmfile"
	"github.com/frozenfs/frozenfs/region"
)

// MapFile maps the entire file at rawURL read-only. Only file:// URLs are
// accepted.
func MapFile(rawURL string) (region.Frozen, error) {
	return MapFileRange(rawURL, 0, -1)
}

// MapFileRange maps length bytes of the file at rawURL starting at
// startOffset, read-only. A negative length means "to end of file". The
// underlying mapping is page-aligned (start rounded down, length rounded
// up to the page boundary); the returned region points at exactly the
// requested bytes, with its handle owning the page-aligned mapping plus
// file descriptor.
func MapFileRange(rawURL string, startOffset, length int64) (region.Frozen, error) {
	path, err := fileURLToPath(rawURL)
	if err != nil {
		return region.Frozen{}, err
	}

	data, pad, resolved, release, err := mmfile.MapRange(path, startOffset, length)
	if err != nil {
		return region.Frozen{}, errs.New(errs.KindIO, "map file", err)
	}
	if resolved == 0 {
		return region.Empty(), nil
	}
	h := region.NewHandle(func() { _ = release() })
	full := region.NewFrozen(data, h)
	return full.Slice(int(pad), int(pad+resolved))
}

func fileURLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errs.New(errs.KindUnsupportedURL, "parse mapped file URL", err)
	}
	if u.Scheme != "file" {
		return "", errs.ErrUnsupportedURL
	}
	if u.Path == "" {
		return "", errs.New(errs.KindUnsupportedURL, "file URL has no path", nil)
	}
	return u.Path, nil
}
