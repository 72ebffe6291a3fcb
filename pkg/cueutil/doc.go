// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds the CUE decoding flow shared by recipe descriptors and
// the recipekit configuration file.
//
// Every CUE document recipekit reads goes through the same steps:
//
//  1. compile the embedded schema
//  2. compile the user document and unify it with the schema definition
//  3. validate and decode into a Go value
//
// Errors are reported as "<file>: <json-path>: <message>" so that a broken
// variant entry points at variants[3].default rather than an internal CUE path.
//
//	result, err := cueutil.ParseAndDecode[Recipe](schema, data, "#Recipe",
//		cueutil.WithFilename("package.cue"))
package cueutil
