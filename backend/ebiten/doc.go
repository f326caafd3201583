// Package ebiten runs a sprite.Renderer inside an Ebitengine game.
//
// Ebitengine owns the window, the event loop and the GPU. The backend keeps
// streaming buffers on the CPU and turns every draw call into one
// DrawTriangles onto the screen image Ebitengine hands to Game.Draw.
//
//	g, err := ebiten.NewGame(func(r *sprite.Renderer) error {
//	    return r.Render(func(ctx *sprite.RenderContext) error {
//	        return player.RenderAt(ctx, sprite.V2(100, 100))
//	    })
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer g.Close()
//	if err := ebiten.RunGame(g); err != nil {
//	    log.Fatal(err)
//	}
//
// Custom WGSL shaders are not supported; pipelines built from them draw
// with Ebitengine's default shader.
package ebiten
