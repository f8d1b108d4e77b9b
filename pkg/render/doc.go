/*
Package render turns a converted DFA into text.

Every function is a pure function of its DFA argument: it returns a fresh value,
never mutates the DFA and does not depend on call order, so several DFAs can be
rendered concurrently.

The three canonical renderings are Table, Edges and Formal; Report joins them.
Mermaid, DOT, Markdown and Pretty are diagram and terminal conveniences.
*/
package render
