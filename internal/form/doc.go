// Package form holds the client-side rules for the prediction form: the
// full-request validation run before submission and the per-field range
// hints shown while the user types.
//
// Validation never short-circuits. Every violated rule contributes one
// message and callers join them with Join for display.
package form
