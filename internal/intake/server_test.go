package intake

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stmarys-jajpur/admitform/internal/attachment"
	"github.com/stmarys-jajpur/admitform/internal/form"
	"github.com/stmarys-jajpur/admitform/internal/submission"
)

func newTestServer(t *testing.T, cfg *Config) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func post(t *testing.T, url, body string) (int, Response) {
	t.Helper()
	resp, err := http.Post(url, "text/plain;charset=utf-8", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var out Response
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

const admissionBody = `{"studentName":"ANANYA DAS","classApplyingFor":"Class 3","email":"das@example.com",
"paymentScreenshot":{"name":"upi.png","mimeType":"image/png","data":"iVBORw0K"},
"studentPhoto":null,"sibling1":{"name":"","admNo":"","class":""}}`

func TestHandleSubmit_Success(t *testing.T) {
	srv, ts := newTestServer(t, &Config{})

	status, resp := post(t, ts.URL+"/exec", admissionBody)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if resp.Result != "success" || resp.Row != 1 {
		t.Errorf("response = %+v", resp)
	}

	rows := srv.Sheet().Rows()
	if len(rows) != 1 {
		t.Fatalf("sheet has %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.StudentName != "ANANYA DAS" || row.Class != "Class 3" || row.Email != "das@example.com" {
		t.Errorf("row = %+v", row)
	}
	if row.Form != "admission" {
		t.Errorf("Form = %q, want admission", row.Form)
	}
	if len(row.Files) != 1 || row.Files[0].Field != "paymentScreenshot" || row.Files[0].Size != 6 {
		t.Errorf("Files = %+v", row.Files)
	}
	if row.ID == "" {
		t.Error("row ID not assigned")
	}

	_, resp = post(t, ts.URL+"/", `{"studentName":"B","declarationAccepted":true}`)
	if resp.Row != 2 {
		t.Errorf("second row = %d, want 2", resp.Row)
	}
	if srv.Sheet().Rows()[1].Form != "sat" {
		t.Error("payload without a payment slot should be recorded as sat")
	}
}

func TestHandleSubmit_SheetFull(t *testing.T) {
	_, ts := newTestServer(t, &Config{Capacity: 1})

	if _, resp := post(t, ts.URL+"/exec", admissionBody); resp.Result != "success" {
		t.Fatalf("first submission = %+v", resp)
	}

	status, resp := post(t, ts.URL+"/exec", admissionBody)
	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if resp.Result != "error" || resp.Error != "Sheet full" {
		t.Errorf("response = %+v, want Sheet full", resp)
	}
}

func TestHandleSubmit_Malformed(t *testing.T) {
	_, ts := newTestServer(t, &Config{})

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"not json", "hello", "not a JSON object"},
		{"array", "[1,2]", "not a JSON object"},
		{"empty object", "{}", "empty submission"},
		{"bad base64", `{"paymentScreenshot":{"name":"a.png","mimeType":"image/png","data":"@@@"}}`, "invalid base64"},
		{"data uri", `{"paymentScreenshot":{"name":"a.png","mimeType":"image/png","data":"data:image/png;base64,iVBO"}}`, "data: URI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp := post(t, ts.URL+"/exec", tt.body)
			if resp.Result != "error" {
				t.Fatalf("Result = %q, want error", resp.Result)
			}
			if !strings.Contains(resp.Error, tt.wantErr) {
				t.Errorf("Error = %q, should contain %q", resp.Error, tt.wantErr)
			}
		})
	}
}

func TestHandleSubmit_FailStatus(t *testing.T) {
	srv, ts := newTestServer(t, &Config{FailStatus: http.StatusServiceUnavailable})

	status, _ := post(t, ts.URL+"/exec", admissionBody)
	if status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", status)
	}
	if srv.Sheet().Len() != 0 {
		t.Error("nothing should be stored while failing")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"fail status too low", &Config{FailStatus: 200}},
		{"cert without key", &Config{CertPath: "cert.pem"}},
		{"missing cert files", &Config{CertPath: "/nonexistent/cert.pem", KeyPath: "/nonexistent/key.pem"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Error("New() should fail")
			}
		})
	}
}

func TestHandleSubmit_UploadDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	srv, ts := newTestServer(t, &Config{UploadDir: dir})

	post(t, ts.URL+"/exec", admissionBody)

	row := srv.Sheet().Rows()[0]
	path := row.Files[0].Path
	if filepath.Dir(path) != dir {
		t.Fatalf("Path = %q, want file in %s", path, dir)
	}
	if !strings.HasSuffix(path, row.ID+"-paymentScreenshot.png") {
		t.Errorf("Path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data[1:4]) != "PNG" {
		t.Errorf("stored bytes = %q", data)
	}
}

func TestHandleSubmit_FullSheetRemovesUploads(t *testing.T) {
	dir := t.TempDir()
	_, ts := newTestServer(t, &Config{UploadDir: dir, Capacity: 1})

	post(t, ts.URL+"/exec", admissionBody)
	post(t, ts.URL+"/exec", admissionBody)

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("upload dir has %d files, want 1", len(entries))
	}
}

func TestHealthAndRows(t *testing.T) {
	_, ts := newTestServer(t, &Config{Capacity: 5})
	post(t, ts.URL+"/exec", admissionBody)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	var health map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&health)
	_ = resp.Body.Close()
	if health["status"] != "ok" || health["rows"] != float64(1) || health["capacity"] != float64(5) {
		t.Errorf("health = %v", health)
	}

	resp, err = http.Get(ts.URL + "/rows")
	if err != nil {
		t.Fatal(err)
	}
	var rows []Row
	_ = json.NewDecoder(resp.Body).Decode(&rows)
	_ = resp.Body.Close()
	if len(rows) != 1 || rows[0].StudentName != "ANANYA DAS" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	_, ts := newTestServer(t, &Config{})
	resp, err := http.Get(ts.URL + "/exec")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /exec status = %d, want 405", resp.StatusCode)
	}
}

// The desk's submission pipeline against the intake server
func TestPipelineRoundTrip(t *testing.T) {
	srv, ts := newTestServer(t, &Config{Capacity: 1})

	rec := form.NewRecord(form.Admission(), time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))
	_ = rec.Set(form.FieldStudentName, "ANANYA DAS")
	_ = rec.SetChecked(form.FieldDeclaration, true)
	_ = rec.SetAttachment(form.FieldPayment, &attachment.MemoryBlob{FileName: "upi.jpg", Type: "image/jpeg", Data: []byte{0xFF, 0xD8, 0xFF}})

	pipeline := submission.NewPipeline(submission.NewClient(ts.URL+"/exec"), nil)

	resp, err := pipeline.Submit(context.Background(), rec)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if resp.Row != 1 {
		t.Errorf("Row = %d, want 1", resp.Row)
	}
	if got := srv.Sheet().Rows()[0].Files[0].Size; got != 3 {
		t.Errorf("stored attachment size = %d, want 3", got)
	}

	_, err = pipeline.Submit(context.Background(), rec)
	if got := submission.UserMessage(err, rec.Schema()); got != "Sheet full" {
		t.Errorf("UserMessage() = %q, want Sheet full", got)
	}
}

func TestPipelineRoundTrip_FailStatus(t *testing.T) {
	_, ts := newTestServer(t, &Config{FailStatus: http.StatusBadGateway})

	rec := form.NewRecord(form.SAT(), time.Now())
	_ = rec.SetChecked(form.FieldDeclaration, true)

	_, err := submission.NewPipeline(submission.NewClient(ts.URL+"/exec"), nil).Submit(context.Background(), rec)
	if !submission.IsNetworkError(err) {
		t.Errorf("error = %v, want network error", err)
	}
}
