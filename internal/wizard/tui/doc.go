// Package tui implements the interactive admission desk.
//
// It is a Bubble Tea program that renders a shell.Shell and forwards key
// presses to it. All screen state (which view, the record, the in-flight
// flag, the last error and receipt) lives in the shell. This package only
// owns widgets.
//
// # Screens
//
//  1. Landing: school information, important dates, required documents and
//     the admission guidelines in a scrolling viewport. Enter opens the form.
//
//  2. Form: one section at a time with tabs across the top. Each field is a
//     row; enter edits it inline:
//     - text and dates open a textinput, addresses a textarea
//     - choices cycle with ←/→ (enter also advances)
//     - the declaration toggles with space or enter
//     - attachments take a file path; x removes the file
//     Tab moves to the next section unless the section is gated, in which
//     case the Next button is struck through and the reason is shown. On the
//     last section ctrl+s submits once the record is submittable.
//
//  3. Success: the receipt with its reference ID and the follow-up note.
//
// While a submission is in flight a blocking overlay with a spinner covers
// the form and every key except ctrl+c is ignored. A failed submission
// leaves the record as it was and shows a toast; esc dismisses it.
//
// # Usage
//
//	sh := shell.New(schema, pipeline)
//	app := tui.NewAppModel(ctx, sh, tui.Options{School: settings.School})
//	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
//	    return err
//	}
package tui
