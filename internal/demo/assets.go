package demo

import (
	"fmt"

	"github.com/taigrr/softras/internal/config"
	"github.com/taigrr/softras/pkg/models"
	"github.com/taigrr/softras/pkg/render"
)

// maxTextureSize bounds loaded images. Larger ones only alias at viewer
// resolutions, so they are shrunk once at load.
const maxTextureSize = 256

// Assets are the images and meshes a World draws. Missing files fall back
// to generated stand-ins.
type Assets struct {
	Floor  *render.Texture
	Sprite *render.Texture
	Model  *models.Mesh // nil without --model
}

// LoadAssets reads the files named in cfg. Any failure is returned; the
// viewer does not start with half its assets.
func LoadAssets(cfg config.Config) (Assets, error) {
	var a Assets
	var err error

	if cfg.Texture != "" {
		if a.Floor, err = render.LoadTexture(cfg.Texture); err != nil {
			return Assets{}, err
		}
		a.Floor = shrink(a.Floor)
	} else {
		a.Floor = render.NewCheckerTexture(64, 64, 8, render.RGB(200, 200, 200), render.RGB(100, 100, 100))
	}

	if cfg.Sprite != "" {
		if a.Sprite, err = render.LoadTexture(cfg.Sprite); err != nil {
			return Assets{}, err
		}
		a.Sprite = shrink(a.Sprite)
	} else {
		a.Sprite = treeSprite()
	}

	if cfg.Model != "" {
		if a.Model, err = models.LoadGLB(cfg.Model); err != nil {
			return Assets{}, fmt.Errorf("load model %s: %w", cfg.Model, err)
		}
		a.Model.Fit(2)
		if a.Model.Texture != nil {
			a.Model.Texture = shrink(a.Model.Texture)
		}
	}
	return a, nil
}

// treeSprite draws a small pine on a MaskColor background.
func treeSprite() *render.Texture {
	const w, h = 16, 24
	t := render.NewTexture(w, h)
	leaf := render.RGB(40, 140, 60)
	trunk := render.RGB(110, 70, 30)
	for y := range h {
		for x := range w {
			c := render.MaskColor
			switch {
			case y >= 19:
				if x >= 6 && x <= 9 {
					c = trunk
				}
			default:
				// Three stacked triangles widening towards the bottom.
				half := y%7 + 1
				if x >= w/2-half && x < w/2+half {
					c = leaf
				}
			}
			t.SetPixel(x, y, c)
		}
	}
	return t
}

// shrink scales t down so neither side exceeds maxTextureSize.
func shrink(t *render.Texture) *render.Texture {
	longest := max(t.Width, t.Height)
	if longest <= maxTextureSize {
		return t
	}
	return t.Scaled(max(1, t.Width*maxTextureSize/longest), max(1, t.Height*maxTextureSize/longest))
}
