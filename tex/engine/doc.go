// Package engine implements TeX style macro expansion.
//
// An Engine reads tokens from a tokenizer, expands macros and
// conditionals, and executes definitions and register assignments.
// Everything it does not interpret itself, characters and unknown
// control sequences for example, is passed on to the host through the
// Output interface and collected in the list returned by Parse.
//
// Definitions, category codes and register values live in a chain of
// scopes.  Groups, math shifts and environments each open a new scope,
// which is discarded again when the group ends.
package engine
