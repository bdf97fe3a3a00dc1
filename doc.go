// Package huffman implements canonical Huffman codes over arbitrary
// alphabets, together with a small byte-oriented container format that uses
// them to compress and decompress data.
//
// A code is built in three steps: a FrequencyTable counts symbols, BuildTree
// runs the greedy Huffman merge with a deterministic tie-break, and
// NewCodeTable turns the tree's leaf depths into a canonical code.  Only the
// (symbol, bit length) pairs need to be stored to reproduce the code on the
// receiving end.
//
// References:
//
//	<https://www.rfc-editor.org/rfc/rfc1951.html>, Section 3.2.2
//
//	<https://en.wikipedia.org/wiki/Canonical_Huffman_code>
package huffman
