// Package submission sends a completed record to the spreadsheet intake
// endpoint.
//
// A submission is one POST whose body is the JSON record, declared as
// text/plain so that script endpoints accept it without a pre-flight. The
// endpoint answers with a small JSON object:
//
//	{"result": "success"}
//	{"result": "error", "error": "Sheet full"}
//
// # Usage Example
//
//	client := submission.NewClient(cfg.Endpoint)
//	pipeline := submission.NewPipeline(client, attachment.NewEncoder())
//
//	resp, err := pipeline.Submit(ctx, rec)
//	if err != nil {
//	    fmt.Println(submission.UserMessage(err, rec.Schema()))
//	    return
//	}
//
// # Error Handling
//
// Every failure is a *SubmitError. The predicates group them the way the
// applicant sees them:
//
//   - IsNetworkError: transport failures, timeouts and non-2xx answers.
//     Shown as a generic "check your internet connection" message.
//   - IsRejected: the endpoint refused the record. Its message is shown
//     verbatim, or "Submission failed on server" when it gave none.
//   - IsAttachmentError: a selected file could not be read.
//   - IsValidationError: the record was not submittable. Raised before any
//     network activity.
//
// UserMessage folds all of these into the single string the UI displays.
//
// # Retries
//
// None. The pipeline never changes the record, so the caller can simply
// call Submit again when the user asks.
package submission
