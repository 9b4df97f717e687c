// Package binder binds HTTP request data to structs.
//
// Each binder reads one source and only the fields tagged for it:
//
//   - JSON(): strict application/json bodies, capped at DefaultMaxJSONSize
//   - Query(): `query:"name"` fields from the URL query string
//   - Path(extractor): `path:"name"` fields from router parameters
//
// Supported field kinds are string, signed and unsigned integers, floats,
// bool, pointers to those (for optional values) and slices of them.
//
//	type QRRequest struct {
//		URL  string `query:"url"`
//		Size int    `query:"size"`
//	}
//
// Every failure wraps one of the package sentinel errors, so handlers can map
// them to 400 or 415 responses with errors.Is.
package binder
