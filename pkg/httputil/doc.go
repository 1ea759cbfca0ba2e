// Package httputil provides HTTP helpers for the Vector Studio server.
//
// # Overview
//
// Handlers exchange JSON and report failures as structured errors:
//
//   - [WriteJSON]: encode a response body with a status code
//   - [WriteError]: map an error to its status via errors.HTTPStatus and
//     write {"error": {"code": ..., "message": ...}}
//   - [DecodeJSON]: strictly decode a size-limited request body
//   - [Attachment]: set download headers for export files
//
// Usage:
//
//	var req struct{ Tool string `json:"tool"` }
//	if err := httputil.DecodeJSON(w, r, &req, 1<<20); err != nil {
//	    httputil.WriteError(w, logger, err)
//	    return
//	}
//	httputil.WriteJSON(w, http.StatusOK, state)
package httputil
