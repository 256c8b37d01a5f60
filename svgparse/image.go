package svgparse

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	// registered for image.DecodeConfig
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/benoitkugler/svgimport/svgpath"
	"github.com/benoitkugler/svgimport/svgshape"
	"github.com/benoitkugler/svgimport/svgxml"
	"github.com/tdewolff/parse/v2"
)

// resolveHref returns the local file referenced by `href`,
// or an empty string for remote resources.
func resolveHref(baseDir, href string) string {
	if strings.HasPrefix(href, "file://") {
		return strings.TrimPrefix(href, "file://")
	}
	if strings.Contains(href, "://") {
		return ""
	}
	if filepath.IsAbs(href) {
		return href
	}
	return filepath.Join(baseDir, filepath.FromSlash(href))
}

// loadImage fills the image source, and returns the
// intrinsic size of embedded images (zero if unknown).
func loadImage(img *svgshape.Image, baseDir string) (w, h float64, err error) {
	if !strings.HasPrefix(img.Href, "data:") {
		img.Path = resolveHref(baseDir, img.Href)
		return 0, 0, nil
	}
	mediatype, data, err := parse.DataURI([]byte(img.Href))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s", ErrBadImage, err)
	}
	img.Data = data
	img.MimeType = strings.TrimSpace(strings.SplitN(string(mediatype), ";", 2)[0])
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil { // the host may support more formats
		return 0, 0, nil
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

func imageF(p *Parser, el *svgxml.Element, _ int) *svgshape.Node {
	img := &svgshape.Image{
		Href:                strings.TrimSpace(el.Attr("href")),
		PreserveAspectRatio: el.Attr("preserveAspectRatio"),
	}
	if img.Href == "" {
		p.warnAt(el, fmt.Errorf("missing href: %w", ErrBadImage))
		return nil
	}
	w, h, err := loadImage(img, p.top().xmlBaseDir)
	if err != nil {
		p.warnAt(el, err)
		return nil
	}
	if ow := p.optionalLength(el, "width", AxisX); ow >= 0 {
		w = ow
	}
	if oh := p.optionalLength(el, "height", AxisY); oh >= 0 {
		h = oh
	}
	img.Rect = svgpath.Bounds{X: p.length(el.Attr("x"), AxisX, 0), Y: p.length(el.Attr("y"), AxisY, 0), W: w, H: h}
	if img.Rect.IsEmpty() {
		p.warnAt(el, fmt.Errorf("unknown size: %w", ErrBadImage))
		return nil
	}

	n := p.newNode(svgshape.ImageShape, el)
	if n == nil {
		return nil
	}
	if coll := p.opts.imageCollection(); coll != nil {
		key, err := coll.AddImage(img)
		if err != nil {
			p.warnAt(el, err)
		} else {
			img.Key = key
		}
	}
	n.Image = img
	return n
}
