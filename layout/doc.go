// Package layout reconstructs document structure from positioned
// primitives.
//
// Sources that expose only positioned text spans (PDF) carry no paragraph,
// heading, or list markup. The [Reconstructor] recovers that structure
// geometrically: spans covered by detected tables are suppressed, the
// remainder are grouped into lines by vertical position, coalesced into
// styled runs, classified by typographic signals, and interleaved with
// tables and images into a single top-to-bottom element sequence.
//
// [Classify] is the companion style heuristic: it infers bold and italic
// from the font name and size when a source has no explicit style flags.
package layout
