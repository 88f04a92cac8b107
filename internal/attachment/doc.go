// Package attachment converts applicant files into the transport-safe shape
// expected by the intake endpoint.
//
// Each non-absent attachment slot of a record holds a Blob. Before a
// submission the Encoder reads every blob and produces an Encoded value:
//
//	{"name": "photo.jpg", "mimeType": "image/jpeg", "data": "<base64>"}
//
// The data field is plain standard base64 with no "data:...;base64," prefix.
// Filenames and MIME types are passed through unmodified.
//
// # Usage Example
//
//	enc := attachment.NewEncoder()
//	blob, err := attachment.NewFileBlob("/home/parent/payment.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	encoded, err := enc.EncodeAll(ctx, map[string]attachment.Blob{
//	    "paymentScreenshot": blob,
//	})
//
// # Concurrency
//
// EncodeAll reads all slots concurrently and joins before returning. The first
// read failure cancels the remaining reads and is returned as a *ReadError;
// failures are never swallowed.
package attachment
