// Package export renders committed documents to SVG, PNG, PDF and JSON.
//
// Every renderer reads a [scene.Document], which holds committed objects
// only, and additionally skips hidden objects and anything that is not in
// the committed role. Grid lines and path previews therefore never reach an
// export.
//
// # Formats
//
//   - SVG: self-contained markup; images are embedded as data URIs.
//   - PNG: rasterized natively with fogleman/gg, or by rsvg-convert when the
//     [BackendRSVG] backend is selected.
//   - PDF: vector output with gofpdf, or rsvg-convert.
//   - JSON: the document file format.
//
// # Caching
//
// [Runner] wraps the renderers with an artifact cache keyed by a hash of the
// document, so repeated exports of an unchanged scene are served from cache:
//
//	r := export.NewRunner(cache.NewMemoryCache(), nil, logger)
//	data, err := r.Export(ctx, doc, export.FormatPNG, export.WithScale(2))
package export
