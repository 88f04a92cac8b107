package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stmarys-jajpur/admitform/internal/attachment"
	"github.com/stmarys-jajpur/admitform/internal/discovery"
	"github.com/stmarys-jajpur/admitform/internal/form"
	"github.com/stmarys-jajpur/admitform/internal/logging"
	"github.com/stmarys-jajpur/admitform/internal/shell"
	"github.com/stmarys-jajpur/admitform/internal/submission"
	"github.com/stmarys-jajpur/admitform/internal/ui"
	"github.com/stmarys-jajpur/admitform/internal/wizard/tui"
)

// Command flags
var (
	submitYes  bool
	schemaJSON bool
	scanSave   bool
	scanJSON   bool
)

func init() {
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(scanCmd)
}

// errNoEndpoint is returned when neither settings nor flags name an endpoint
var errNoEndpoint = errors.New("no submission endpoint configured; run 'admitform config set-endpoint <url>' or use --discover")

// resolveEndpoint returns the endpoint to submit to, browsing mDNS when
// --discover is set
func resolveEndpoint(ctx context.Context) (string, error) {
	if discover {
		ep, err := discovery.FindEndpoint(ctx, scanTimeout)
		if err != nil {
			return "", fmt.Errorf("endpoint discovery failed: %w", err)
		}
		logging.Info("Discovered intake endpoint",
			zap.String("instance", ep.Instance),
			zap.String("url", ep.URL()))
		return ep.URL(), nil
	}

	if strings.TrimSpace(settings.Endpoint) == "" {
		return "", errNoEndpoint
	}
	if err := submission.ValidateEndpoint(settings.Endpoint); err != nil {
		return "", err
	}
	return settings.Endpoint, nil
}

// newPipeline wires the submission pipeline from settings
func newPipeline(endpoint string) *submission.Pipeline {
	client := submission.NewClient(endpoint)
	client.SetTimeout(settings.Timeout())

	encoder := attachment.NewEncoder()
	encoder.MaxBytes = settings.MaxAttachmentBytes()

	pipeline := submission.NewPipeline(client, encoder)
	pipeline.Timeout = settings.Timeout()
	return pipeline
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// runDesk launches the interactive desk
func runDesk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	schema, err := form.Lookup(settings.Variant)
	if err != nil {
		return err
	}
	endpoint, err := resolveEndpoint(ctx)
	if err != nil {
		return err
	}

	sh := shell.New(schema, newPipeline(endpoint))
	app := tui.NewAppModel(ctx, sh, tui.Options{
		School:             settings.School,
		MaxAttachmentBytes: settings.MaxAttachmentBytes(),
		Endpoint:           endpoint,
	})

	logging.Info("Starting desk", zap.String("form", schema.Name), zap.String("endpoint", endpoint))

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("desk error: %w", err)
	}
	return nil
}

// submitCmd posts a prepared record file
var submitCmd = &cobra.Command{
	Use:   "submit <record.yaml>",
	Short: "Submit a prepared record file",
	Long: `Submit an application or registration prepared as a YAML record file.

Keys are field names; attachment values are file paths relative to the
record file. The record goes through the same checks as in the desk: the
declaration must be accepted and every required attachment present. The
record is posted exactly once.`,
	Example: `  # Submit with confirmation
  admitform submit ananya.yaml

  # SAT registration, no prompt
  admitform submit --variant sat --yes ravi.yaml

  # Against a local intake server
  admitform submit --endpoint http://localhost:8080/exec ananya.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().BoolVarP(&submitYes, "yes", "y", false, "Skip the confirmation prompt")
}

// Steps of the submit command
const (
	stepLoad = iota
	stepCheck
	stepEncode
	stepSend
)

func runSubmit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	printer := ui.NewPrinter(cmd.OutOrStdout())

	schema, err := form.Lookup(settings.Variant)
	if err != nil {
		return err
	}
	endpoint, err := resolveEndpoint(ctx)
	if err != nil {
		return err
	}

	printer.PrintHeader("Submit "+schema.Noun, "admitform submit "+args[0],
		ui.Detail{Key: "Form", Value: schema.Title},
		ui.Detail{Key: "Endpoint", Value: endpoint},
		ui.Detail{Key: "Timeout", Value: settings.Timeout().String()},
	)
	printer.Newline()

	progress := ui.NewProgress("", "Load record", "Check declaration", "Encode attachments", "Send to endpoint")
	fail := func(step int, title string, err error) error {
		progress.Fail(step, submission.GetShortErrorMessage(err))
		printer.PrintProgress(progress)
		printer.PrintError(title, submission.UserMessage(err, schema), hintsFor(err)...)
		return err
	}

	// Load
	progress.Start(stepLoad)
	rec, err := form.LoadRecordFile(schema, args[0], time.Now())
	if err != nil {
		return fail(stepLoad, "Record file rejected", submission.NewValidationError(err.Error()))
	}
	progress.Complete(stepLoad, rec.Text(form.FieldStudentName))

	// Check
	progress.Start(stepCheck)
	if !schema.Submittable(rec) {
		return fail(stepCheck, "Not ready to submit", submission.NewValidationError(schema.SubmitBlocker(rec)))
	}
	progress.Complete(stepCheck, "")

	// Encode
	pipeline := newPipeline(endpoint)
	progress.Start(stepEncode)
	payload, err := pipeline.Prepare(ctx, rec)
	if err != nil {
		return fail(stepEncode, "Attachment problem", err)
	}
	progress.Complete(stepEncode, fmt.Sprintf("%d files, %s", countAttachments(rec), formatBytes(len(payload))))
	printer.PrintProgress(progress)

	if !submitYes {
		question := fmt.Sprintf("Submit this %s for %s?", schema.Noun, displayName(rec))
		if !ui.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), question) {
			return nil
		}
	}

	// Send
	progress.Start(stepSend)
	resp, err := pipeline.Send(ctx, schema.Name, payload)
	if err != nil {
		return fail(stepSend, "Submission failed", err)
	}
	progress.Complete(stepSend, "")
	printer.PrintProgress(progress)

	receipt := shell.NewReceipt(rec, time.Now())
	details := []ui.Detail{
		{Key: schema.RefLabel, Value: receipt.RefID},
		{Key: "Date", Value: receipt.Date},
		{Key: "Student", Value: receipt.StudentName},
		{Key: "Class", Value: receipt.Class},
	}
	if resp != nil && resp.Row > 0 {
		details = append(details, ui.Detail{Key: "Sheet row", Value: strconv.Itoa(resp.Row)})
	}
	printer.PrintSuccess(schema.SuccessTitle, details...)
	printer.Println("  " + receipt.Note(schema))
	return nil
}

// hintsFor suggests next steps for a failed submission
func hintsFor(err error) []string {
	switch {
	case submission.IsTimeout(err):
		return []string{
			"Check the internet connection",
			"Retry with a longer --timeout",
		}
	case submission.IsNetworkError(err), submission.IsParseError(err):
		return []string{
			"Check the internet connection",
			"Check the endpoint with 'admitform config show'",
			"Use --discover to find a local intake server",
		}
	case submission.IsRejected(err):
		return []string{"Contact the school office; the endpoint refused the record"}
	case submission.IsAttachmentError(err):
		return []string{
			"Check that every attachment path exists and is readable",
			fmt.Sprintf("Attachments must be %d MB or smaller", settings.MaxAttachmentMB),
		}
	case submission.IsValidationError(err):
		return []string{
			"Set declarationAccepted: true in the record file",
			"Run 'admitform schema' to see field names and required files",
		}
	default:
		return nil
	}
}

func countAttachments(rec *form.Record) int {
	n := 0
	for _, slot := range rec.Schema().Attachments() {
		if rec.HasAttachment(slot) {
			n++
		}
	}
	return n
}

func displayName(rec *form.Record) string {
	if name := rec.Text(form.FieldStudentName); name != "" {
		return name
	}
	return "this applicant"
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// schemaCmd describes the active form variant
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Describe the form fields and sections",
	Long: `Print the sections and fields of the selected form variant.

Use the field names as keys when preparing a record file for 'submit'.`,
	Example: `  admitform schema
  admitform schema --variant sat --json`,
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().BoolVar(&schemaJSON, "json", false, "Print the schema as JSON")
}

func runSchema(cmd *cobra.Command, args []string) error {
	schema, err := form.Lookup(settings.Variant)
	if err != nil {
		return err
	}
	if schemaJSON {
		return printJSON(cmd.OutOrStdout(), schema)
	}

	printer := ui.NewPrinter(cmd.OutOrStdout())
	printer.PrintHeader(schema.Title, "admitform schema --variant "+schema.Name,
		ui.Detail{Key: "Sections", Value: strconv.Itoa(len(schema.Sections))},
		ui.Detail{Key: "Fields", Value: strconv.Itoa(len(schema.Fields))},
	)

	for i, sec := range schema.Sections {
		printer.Newline()
		printer.Printf("  %d. %s: %s\n", i+1, sec.Title, sec.Heading)
		for _, name := range sec.Fields {
			f, ok := schema.Field(name)
			if !ok {
				continue
			}
			mark := " "
			if f.Required {
				mark = "*"
			}
			printer.Printf("     %s %-22s %-10s %s\n", mark, f.Name, f.Kind, f.Label)
			for _, sub := range f.Subfields {
				printer.Printf("         .%-19s %-10s %s\n", sub.Name, "text", sub.Label)
			}
		}
		if gate, ok := schema.Gate(i); ok {
			printer.Printf("     gate: %s\n", gate.Reason)
		}
	}
	printer.Newline()
	return nil
}

// scanCmd browses for intake endpoints
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find intake endpoints on the local network",
	Long: `Browse mDNS for intake servers advertising ` + discovery.ServiceType + `.

admitform-intake advertises itself when started with --advertise. Use
--save to store the first endpoint found in the settings file.`,
	Example: `  admitform scan
  admitform scan --scan-timeout 10s --save`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanSave, "save", false, "Save the first endpoint found to the settings file")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Print endpoints as JSON")
}

func runScan(cmd *cobra.Command, args []string) error {
	printer := ui.NewPrinter(cmd.OutOrStdout())
	if !scanJSON {
		printer.Printf("Scanning for intake endpoints (timeout: %s)...\n\n", scanTimeout)
	}

	endpoints, err := discovery.Scan(cmd.Context(), scanTimeout)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if scanJSON {
		return printJSON(cmd.OutOrStdout(), endpoints)
	}

	if len(endpoints) == 0 {
		printer.PrintError("No endpoints found", "Nothing answered for "+discovery.ServiceType+".",
			"Start a local server with 'admitform-intake serve --advertise'",
			"Check that this machine is on the same network",
			"Try a longer --scan-timeout",
		)
		return nil
	}

	for i, ep := range endpoints {
		printer.Printf("%d. %s\n", i+1, ep.Instance)
		printer.Printf("   URL:   %s\n", ep.URL())
		printer.Printf("   Host:  %s\n", ep.Hostname)
		if len(ep.Metadata) > 0 {
			printer.Printf("   TXT:   %v\n", ep.Metadata)
		}
		printer.Newline()
	}

	if scanSave {
		return saveEndpoint(printer, endpoints[0].URL())
	}
	printer.Println("Use 'admitform scan --save' or 'admitform config set-endpoint <url>' to keep one")
	return nil
}
