// Package gpucore defines the backend-neutral GPU contract used by the
// sprite renderer.
//
// The renderer never touches a GPU API directly. It talks to an [Adapter]
// for resource creation (textures, streaming buffers, pipelines) and to a
// [Target] for the image acquired for the current frame. Backends translate
// both into their own API:
//
//	               +------------------+
//	               |  sprite.Renderer |
//	               +--------+---------+
//	                        |
//	          gpucore.Adapter / gpucore.Target
//	                        |
//	     +------------------+------------------+
//	     |                  |                  |
//	+----v-----+    +-------v------+     +-----v-----+
//	|  native  |    |    webgpu    |     |  ebiten   |
//	|  (hal)   |    | (wgpu-native)|     | (ebiten)  |
//	+----------+    +--------------+     +-----------+
//
// Resources are referred to by opaque IDs. Each adapter keeps its own
// mapping between IDs and backend objects; [InvalidID] is never handed out.
package gpucore
