// Package tables builds table candidates from positioned text spans.
//
// PDF sources carry no table markup; tabular structure is recovered
// geometrically by clustering span edges into row and column boundaries.
// Candidates that are too small or too sparsely filled are rejected so
// their spans flow back into ordinary text reconstruction.
package tables
