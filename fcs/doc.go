// Package fcs reads ISAC Flow Cytometry Standard (FCS) 2.0/3.0/3.1 files into
// an immutable, shared-read columnar Table.
//
// Complexity: header+TEXT parsing is O(text length); DATA parsing is
// O(events*parameters). Every value is decoded individually; there is no
// direct-slice path for aligned data. Large tables are decoded in parallel
// chunks.
//
// Determinism: parameter order always matches the file's $PnN declaration
// order; keyword and channel lookups are case-insensitive.
//
// Errors: Open fails with BadExtension, IoError, BadHeader, BadKeywords, or
// TruncatedData. Column-level operations fail with NoSuchChannel or
// NonContiguousColumn.
package fcs
