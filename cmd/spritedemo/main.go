// Command spritedemo draws rotating, tinted sprites and text in an
// Ebitengine window.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/sprite"
	sebiten "github.com/gogpu/sprite/backend/ebiten"
	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font/basicfont"
)

func main() {
	var (
		width   = flag.Int("width", 800, "window width")
		height  = flag.Int("height", 600, "window height")
		count   = flag.Int("count", 64, "number of sprites")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		sprite.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	d := &demo{count: *count}
	g, err := sebiten.NewGame(d.draw,
		sebiten.WithInitialSize(*width, *height),
		sebiten.WithUpdate(d.update),
		sebiten.WithRendererOptions(sprite.WithClearColor(sprite.RGB(0.1, 0.12, 0.18))))
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}
	defer g.Close()

	if err := d.load(g.Renderer()); err != nil {
		log.Fatalf("Failed to load assets: %v", err)
	}

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("sprite demo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatalf("Game exited: %v", err)
	}
}

type demo struct {
	count int
	tick  int

	atlas *sprite.SpriteAtlas
	font  *sprite.SpriteFont
}

func (d *demo) load(r *sprite.Renderer) error {
	atlas, err := sprite.NewSpriteAtlasBuilder().
		WithPadding(1).
		Add("square", solid(32, 32, color.NRGBA{R: 255, G: 255, B: 255, A: 255})).
		Add("checker", checker(32, 8)).
		Add("bar", solid(64, 8, color.NRGBA{R: 255, G: 200, B: 0, A: 255})).
		Build(r)
	if err != nil {
		return fmt.Errorf("atlas: %w", err)
	}
	d.atlas = atlas

	font, err := sprite.NewSpriteFont(r, basicfont.Face7x13, sprite.ASCII)
	if err != nil {
		return fmt.Errorf("font: %w", err)
	}
	d.font = font
	return nil
}

func (d *demo) update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	d.tick++
	return nil
}

func (d *demo) draw(r *sprite.Renderer) error {
	return r.Render(func(ctx *sprite.RenderContext) error {
		size := r.Dimensions()
		names := d.atlas.Names()

		for i := range d.count {
			s, _ := d.atlas.Sprite(names[i%len(names)])
			col, row := i%8, i/8
			loc := sprite.V2(
				size.X*(float32(col)+0.5)/8,
				size.Y*(float32(row)+0.5)/float32((d.count+7)/8+1),
			)
			tint := sprite.RGB(float32(col)/8, float32(row%8)/8, 1-float32(col)/8)
			err := sprite.NewRenderCommand(loc).
				WithPivot(s.Pivot(0.5, 0.5)).
				WithAngle(float32(d.tick*2 + i*15)).
				WithColor(tint).
				Render(ctx, s)
			if err != nil {
				return err
			}
		}

		if err := ctx.FillRect(sprite.R(0, size.Y-24, size.X, 24), sprite.RGBA(0, 0, 0, 0.6)); err != nil {
			return err
		}
		text := fmt.Sprintf("%d sprites  %.0f fps  %.0fx%.0f", d.count, ebiten.ActualFPS(), size.X, size.Y)
		return d.font.Render(ctx, sprite.V2(8, size.Y-18), text, sprite.White)
	})
}

func solid(w, h int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func checker(size, cell int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			if (x/cell+y/cell)%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 64})
			}
		}
	}
	return img
}
