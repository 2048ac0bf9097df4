// Package study holds the read-only study material: the vocabulary
// dictionary, footnote examples, the two-part essay formula and the model
// essays. A Library is loaded once at start and never mutated.
package study
