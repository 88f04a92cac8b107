// Package intake implements admitform-intake, a local stand-in for the
// spreadsheet script that receives admission submissions.
//
// The server speaks the same protocol as the production endpoint:
//
//	POST /exec        body: JSON object (any content type)
//	                  200 {"result":"success","row":N}
//	                  200 {"result":"error","error":"..."}
//
// Attachment values of the form {name, mimeType, data} must carry valid
// base64 data and are optionally written to an upload directory. Rows
// live in an in-memory Sheet with an optional capacity; once it is full
// every submission is refused with "Sheet full".
//
// Other routes:
//   - GET /healthz: row count and subscriber count
//   - GET /rows: accepted rows as JSON
//   - GET /feed: websocket stream of accepted rows (see Watch)
//
// A forced failure status (Config.FailStatus) makes every submission fail
// with a non-2xx answer, for rehearsing the desk's network error path.
// The server can advertise itself over mDNS so that desks find it without
// configuration (see package discovery).
package intake
