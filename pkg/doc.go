// Package pkg provides the core libraries for Vector Studio, a headless
// vector scene editor.
//
// # Overview
//
// An editing session is a scene of shapes (rectangles, ellipses, paths,
// textboxes and images) driven by pointer input and panel edits, with
// snapshot-based undo and exports to SVG, PNG, PDF and JSON. The pkg
// directory is organized into four areas:
//
//  1. Model - [scene], [geom], [layers], [history], [pen]
//  2. Session - [editor] (the single entry point hosts talk to)
//  3. Output - [export], [fonts], [imageio]
//  4. Infrastructure - [cache], [config], [errors], [observability], [httputil], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	Host input (pointer events, panel edits, REST calls)
//	         ↓
//	    [editor] package (tool dispatch, selection, pending edits)
//	         ↓
//	    [scene] + [layers] (objects in stacking order, layer panel view)
//	         ↓
//	    [history] (one snapshot per commit)
//	         ↓
//	    [export] package (SVG / PNG / PDF / JSON)
//
// # Quick Start
//
// Draw a closed triangle and export it:
//
//	ed := editor.New()
//	ed.SetTool(editor.ToolPath)
//	for _, p := range []geom.Point{geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(50, 80), geom.Pt(2, 3)} {
//	    ed.PointerDown(p)
//	}
//	svg := export.SVG(ed.Document())
//
// # Main Packages
//
// [scene] - Objects, shapes, paint and the document file format. Objects have
// a role: committed objects are the user's drawing; grid lines and the path
// preview are scene furniture that never reaches history or exports.
//
// [pen] - The path construction state machine. Clicks accumulate points; a
// click near the first point closes the path.
//
// [layers] - One layer per committed object, with names and IDs that survive
// undo.
//
// [history] - Linear undo/redo over canonical scene snapshots.
//
// [editor] - The session. editor.Loop serializes access for concurrent
// hosts such as the HTTP server.
//
// [export] - Renderers and the caching export.Runner shared by the CLI and
// the server.
//
// [cache] - File, memory and null caches keyed by content hash.
//
// [observability] - Hook interfaces for commits, exports and cache traffic,
// with an OpenTelemetry implementation.
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/editor/...    # Specific package
//	go test -run Example        # Examples only
//
// [scene]: https://pkg.go.dev/github.com/matzehuels/vectorstudio/pkg/scene
// [geom]: https://pkg.go.dev/github.com/matzehuels/vectorstudio/pkg/geom
// [layers]: https://pkg.go.dev/github.com/matzehuels/vectorstudio/pkg/layers
// [history]: https://pkg.go.dev/github.com/matzehuels/vectorstudio/pkg/history
// [pen]: https://pkg.go.dev/github.com/matzehuels/vectorstudio/pkg/pen
// [editor]: https://pkg.go.dev/github.com/matzehuels/vectorstudio/pkg/editor
// [export]: https://pkg.go.dev/github.com/matzehuels/vectorstudio/pkg/export
// [fonts]: https://pkg.go.dev/github.com/matzehuels/vectorstudio/pkg/fonts
// [imageio]: https://pkg.go.dev/github.com/matzehuels/vectorstudio/pkg/imageio
// [cache]: https://pkg.go.dev/github.com/matzehuels/vectorstudio/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/vectorstudio/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/vectorstudio/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/vectorstudio/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/matzehuels/vectorstudio/pkg/httputil
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/vectorstudio/pkg/buildinfo
package pkg
