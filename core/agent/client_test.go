package agent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"cloudcost/internal/config"
	"cloudcost/internal/errors"
)

func testClient(url string) *Client {
	return NewClient(config.AgentConfig{BaseURL: url, TimeoutSeconds: 5})
}

func TestRunExtractsReport(t *testing.T) {
	var gotReq Request
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/run-agent" {
			t.Errorf("path = %q, want /run-agent", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"agent_result": [
			{"content": {"parts": [{"text": "Hello"}]}},
			{"content": {"parts": []}},
			{"content": {"parts": [{"text": "World"}]}}
		]}`))
	}))
	defer backend.Close()

	result, err := testClient(backend.URL).Run(context.Background(), "proj-1", 30)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Report != "Hello\n\nWorld" {
		t.Errorf("report = %q, want %q", result.Report, "Hello\n\nWorld")
	}
	if len(result.AgentResult) == 0 {
		t.Error("raw agent result should be preserved")
	}
	if gotReq.ProjectID != "proj-1" || gotReq.Days != 30 {
		t.Errorf("forwarded request = %+v", gotReq)
	}
}

func TestRunUpstreamError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "agent exploded", http.StatusInternalServerError)
	}))
	defer backend.Close()

	_, err := testClient(backend.URL).Run(context.Background(), "proj-1", 30)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !errors.IsType(err, errors.TypeUpstream) {
		t.Errorf("error type = %v, want UPSTREAM_ERROR", err)
	}
	if !strings.Contains(err.Error(), "agent exploded") {
		t.Errorf("error should carry the upstream body, got %q", err.Error())
	}
}

func TestRunUnreachable(t *testing.T) {
	_, err := testClient("http://127.0.0.1:1").Run(context.Background(), "proj-1", 30)
	if err == nil {
		t.Fatal("expected error for unreachable service")
	}
	if !errors.IsType(err, errors.TypeNetwork) {
		t.Errorf("error type = %v, want NETWORK_ERROR", err)
	}
}

func TestExtractReport(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "single text part",
			input: `[{"content": {"parts": [{"text": "report body"}]}}]`,
			want:  "report body",
		},
		{
			name: "multiple items joined with blank lines",
			input: `[{"content": {"parts": [{"text": "a"}, {"text": "b"}]}},
				{"content": {"parts": [{"text": "c"}]}}]`,
			want: "a\n\nb\n\nc",
		},
		{
			name:  "empty text parts skipped",
			input: `[{"content": {"parts": [{"text": ""}, {"text": "kept"}]}}]`,
			want:  "kept",
		},
		{
			name:  "no parts",
			input: `[{"content": {"parts": []}}]`,
			want:  "",
		},
		{
			name:  "unparseable yields empty report",
			input: `{"not": "a list"}`,
			want:  "",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractReport([]byte(tt.input)); got != tt.want {
				t.Errorf("ExtractReport() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreateTicket(t *testing.T) {
	first := CreateTicket("High cost on proj-3", "details")
	if !strings.HasPrefix(first.TicketID, "TCK-") {
		t.Errorf("ticket ID = %q, want TCK- prefix", first.TicketID)
	}
	if len(first.TicketID) != len("TCK-00000") {
		t.Errorf("ticket ID %q should carry a five digit number", first.TicketID)
	}
	if first.CreatedAt <= 0 {
		t.Error("CreatedAt not set")
	}

	second := CreateTicket("High cost on proj-3", "other details")
	if second.TicketID != first.TicketID {
		t.Errorf("same title should map to the same ticket: %q vs %q", first.TicketID, second.TicketID)
	}

	other := CreateTicket("Different anomaly", "details")
	if other.TicketID == first.TicketID {
		t.Error("different titles should not collide in this test vector")
	}
}
