// Package notebook reads the cells of a Jupyter notebook, translates the
// prose they contain and writes them back without disturbing anything else.
// Markdown cells are translated whole; code cells only have their doc-string
// spans translated. Every field other than a cell's source is passed through
// verbatim, and a source stored as an array of lines stays an array.
package notebook
