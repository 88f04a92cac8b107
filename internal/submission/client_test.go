package submission

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	client := NewClient("https://script.example/exec")

	if client.EndpointURL != "https://script.example/exec" {
		t.Errorf("EndpointURL = %s", client.EndpointURL)
	}
	if client.HTTPClient == nil {
		t.Fatal("HTTPClient should not be nil")
	}
	if client.HTTPClient.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.HTTPClient.Timeout, DefaultTimeout)
	}
	if !strings.HasPrefix(client.UserAgent, "admitform/") {
		t.Errorf("UserAgent = %q", client.UserAgent)
	}
}

func TestSetTimeout(t *testing.T) {
	client := NewClient("https://script.example/exec")
	client.SetTimeout(5 * time.Second)

	if client.HTTPClient.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.HTTPClient.Timeout)
	}
}

func TestPost_Success(t *testing.T) {
	var gotBody, gotType, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		_, _ = w.Write([]byte(`{"result":"success","row":12}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Post(context.Background(), []byte(`{"studentName":"A B"}`))
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotType != "text/plain;charset=utf-8" {
		t.Errorf("Content-Type = %q, want text/plain;charset=utf-8", gotType)
	}
	if gotBody != `{"studentName":"A B"}` {
		t.Errorf("body = %q", gotBody)
	}
	if resp.Result != "success" || resp.Row != 12 {
		t.Errorf("response = %+v", resp)
	}
}

func TestPost_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"error","error":"Sheet full"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Post(context.Background(), []byte(`{}`))
	if !IsRejected(err) {
		t.Fatalf("error = %v, want rejection", err)
	}
	msg, ok := RejectionMessage(err)
	if !ok || msg != "Sheet full" {
		t.Errorf("RejectionMessage() = %q, %v; want Sheet full", msg, ok)
	}
	if IsNetworkError(err) {
		t.Error("rejection should not be a network error")
	}
}

func TestPost_RejectedWithoutMessage(t *testing.T) {
	for _, body := range []string{`{"result":"error"}`, `{"status":"ok"}`, `{}`} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		_, err := NewClient(server.URL).Post(context.Background(), []byte(`{}`))
		server.Close()

		if !IsRejected(err) {
			t.Errorf("body %s: error = %v, want rejection", body, err)
			continue
		}
		if _, ok := RejectionMessage(err); ok {
			t.Errorf("body %s: should have no rejection message", body)
		}
	}
}

func TestPost_Non2xxIsNetworkError(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusForbidden, http.StatusInternalServerError, http.StatusBadGateway} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"result":"success"}`))
		}))

		_, err := NewClient(server.URL).Post(context.Background(), []byte(`{}`))
		server.Close()

		if !IsNetworkError(err) {
			t.Errorf("status %d: error = %v, want network error", status, err)
		}
		subErr, ok := asSubmitError(err)
		if !ok || subErr.StatusCode != status {
			t.Errorf("status %d: StatusCode not recorded: %v", status, err)
		}
	}
}

func TestPost_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>Sign in to continue</html>`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Post(context.Background(), []byte(`{}`))
	if !IsParseError(err) {
		t.Errorf("error = %v, want parse error", err)
	}
}

func TestPost_FollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/exec", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/echo", http.StatusFound)
	})
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"success"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	if _, err := NewClient(server.URL+"/exec").Post(context.Background(), []byte(`{}`)); err != nil {
		t.Errorf("Post() error = %v, redirect should be followed", err)
	}
}

func TestPost_NoRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, _ = NewClient(server.URL).Post(context.Background(), []byte(`{}`))
	if calls.Load() != 1 {
		t.Errorf("endpoint called %d times, want exactly 1", calls.Load())
	}
}

func TestPost_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL)
	client.SetTimeout(50 * time.Millisecond)

	_, err := client.Post(context.Background(), []byte(`{}`))
	if !IsTimeout(err) {
		t.Errorf("error = %v, want timeout", err)
	}
	if !IsNetworkError(err) {
		t.Error("timeout should count as a network error")
	}
}

func TestPost_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(url).Post(context.Background(), []byte(`{}`))
	if !IsNetworkError(err) {
		t.Errorf("error = %v, want network error", err)
	}
}

func TestValidateEndpoint(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://script.google.com/macros/s/abc/exec", false},
		{"http://127.0.0.1:8080/exec", false},
		{"", true},
		{"   ", true},
		{"INSERT_YOUR_GOOGLE_SCRIPT_URL_HERE", true},
		{"ftp://example.com/exec", true},
		{"https://", true},
	}

	for _, tt := range tests {
		err := ValidateEndpoint(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateEndpoint(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
		if err != nil && !IsValidationError(err) {
			t.Errorf("ValidateEndpoint(%q) should return a validation error", tt.url)
		}
	}
}

func TestPost_UnconfiguredEndpointMakesNoRequest(t *testing.T) {
	client := NewClient("")
	_, err := client.Post(context.Background(), []byte(`{}`))
	if !IsValidationError(err) {
		t.Errorf("error = %v, want validation error", err)
	}
}
