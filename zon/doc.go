// Package zon implements ZON, a compact human-readable serialization
// format designed as a lower-token alternative to JSON for exchanging
// structured data with language models.
//
// ZON is designed to be:
//   - Token-cheap (bare strings, single-character literals, CSV-style rows)
//   - Self-describing (schema-less, per-document)
//   - Type-safe (127 vs 127.0, string "true" vs boolean true)
//   - Losslessly round-trippable to JSON-like values
//   - Safe against adversarial input (bounded size, depth, fan-out)
//
// # Data Model
//
// Scalars: null, bool, int, float, string
// Containers: array, object (ordered keys)
//
// # Document Layout
//
// A ZON document is line-oriented: flat key:value metadata lines, plus at
// most one table block holding the dominant array-of-objects ("stream"):
//
//	version:2
//	source:api
//
//	@3:id,name
//	1,Alice
//	2,Bob
//	3,Carol
//
// The encoder promotes the largest array of objects to the table and demotes
// everything else to metadata. Irregular data falls back to inline nodes:
//
//	Object:  {k:v,k2:v2}
//	Array:   [v,v,v]
//
// # Literals
//
//	T       true
//	F       false
//	null    null (decode also accepts true/false/none/nil, case-insensitive)
//
// # Table Headers
//
// Several dialects are accepted on decode:
//
//	@3:id,name           anonymous (stream key "data")
//	users:@(3):id,name   named
//	@3[seq]:id,name      omitted-column (legacy; seq reconstructs as 1,2,3..)
//	@users(3):id,name    legacy named
//
// Sparse tables list only core columns in the header; rows append
// key:value pairs for the optional fields each row actually has:
//
//	@3:id
//	1,name:Alice
//	2,name:Bob,email:b@x.com
//	3,role:admin
package zon
