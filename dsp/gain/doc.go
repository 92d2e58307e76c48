// Package gain provides whole-block level utilities applied after the
// equalizer: peak normalization and linear fade-in/fade-out shaping.
//
// Both operations are stateless and return new slices; the input block is
// never written except by the explicit *InPlace variants.
package gain
