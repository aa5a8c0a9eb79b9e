// Package model provides the format-agnostic intermediate representation
// shared by every extraction adapter and target emitter.
//
// A conversion builds exactly one [Document] from the source file, hands it
// to one emitter, and discards it. Elements within a [Page] are ordered by
// vertical position; [Page.SortByPosition] establishes that invariant before
// emission.
//
// # Elements
//
// All page content implements the [Element] interface. The concrete types are:
//
//   - [TextBlock] - a paragraph, heading, or list item made of styled runs
//   - [Table] - rows of styled cells
//   - [Image] - an embedded raster image
//
// # Styling
//
// [StyleAttributes] is the semantic style vocabulary (bold, italic, size,
// colors, alignment) independent of any container format's native
// representation. Extraction adapters translate into it; emitters translate
// out of it.
//
// # Geometry
//
// [BBox] uses a top-left origin with Y increasing downward, the coordinate
// space emitters consume. Adapters for bottom-origin sources (PDF) flip
// coordinates at the extraction boundary.
package model
