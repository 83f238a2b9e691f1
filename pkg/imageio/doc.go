// Package imageio decodes source photos for slots.
//
// Decoding is the one slow step of a session: it runs off the event loop
// and hands back a plain image.Image (or an error) for the caller to assign.
//
// # Formats
//
// JPEG, PNG and GIF come from the standard library; BMP, TIFF and WebP are
// registered from golang.org/x/image.
//
//	img, err := imageio.DecodeFile(ctx, "photo.jpg", imageio.Options{MaxDimension: 4000})
//
// # Batches
//
// DecodeAll decodes several files concurrently and returns results in input
// order, one per path:
//
//	results := imageio.DecodeAll(ctx, paths, imageio.Options{}, 4)
package imageio
