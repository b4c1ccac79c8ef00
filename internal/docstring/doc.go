// Package docstring finds the documentation spans embedded in code cell text
// and rebuilds the text once those spans have been translated. Matching is a
// regular-expression heuristic, not a lexer for the host language: escaped or
// adjacent markers inside string literals can confuse it.
package docstring
