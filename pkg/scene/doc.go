// Package scene is the authoritative object model of a Vector Studio document.
//
// A [Scene] is an ordered list of [Object] values. Slice order is render
// order: later objects are drawn on top, except grid lines which are always
// kept at the back. Every object carries a [Role] that separates the objects
// a user created ([RoleCommitted]) from the transient path preview
// ([RolePreview]) and the alignment grid ([RoleGrid]). Only committed objects
// are persisted, layered, hit-tested and exported.
//
// The geometry of an object is its [Shape], a closed set of variants:
//
//   - [*Rect]: width and height
//   - [*Ellipse]: two radii, a circle when equal
//   - [*Textbox]: editable text with font family and size
//   - [*Path]: a smoothed polyline, optionally closed
//   - [*Image]: encoded bitmap bytes with pixel dimensions
//   - [*GridLine]: a single line of the alignment grid
//
// Code that needs per-variant behavior switches over these types; no other
// implementation of [Shape] can exist outside this package.
//
// # Serialization
//
// [Snapshot] encodes the committed objects as canonical JSON: equal scenes
// produce byte-identical snapshots, which the history manager relies on.
// [Restore] decodes a snapshot back into a scene. A [Document] wraps the same
// object encoding with canvas metadata for manual import and export.
package scene
