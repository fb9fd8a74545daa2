// Package tokenizer converts TeX input into a stream of tokens.
//
// The tokenizer reads characters from a stack of input sources and
// classifies them using a category code table.  The table can change
// while the input is being read, since category codes are looked up
// character by character.
package tokenizer
