package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diogo/chaindocs/internal/api"
	"github.com/diogo/chaindocs/internal/config"
	apierrors "github.com/diogo/chaindocs/internal/errors"
	"github.com/diogo/chaindocs/internal/models"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func answerClient(answer string, sources ...string) *api.MockClient {
	return &api.MockClient{AskVal: &models.AskResponse{Answer: answer, Sources: sources}}
}

func TestRunQuery_Decorated(t *testing.T) {
	testEnv(t)
	client := answerClient("An **ERC20** token is fungible.", "erc20.md", "openzeppelin/ERC20.sol")
	deps, _, copied := newTestDeps(client)

	stdout, stderr, err := run(t, deps, nil, "What is ERC20?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := client.Queries(); len(got) != 1 || got[0] != "What is ERC20?" {
		t.Errorf("queries = %v", got)
	}
	for _, want := range []string{"✦ ChainDocs", "ERC20", "fungible", "Sources:", "  - erc20.md", "  - openzeppelin/ERC20.sol"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
	if !strings.Contains(stderr, "Done") {
		t.Errorf("expected spinner success on stderr, got %q", stderr)
	}
	if len(*copied) != 0 {
		t.Errorf("clipboard should be untouched by default, got %v", *copied)
	}
}

func TestRunQuery_RawSanitizesAnswer(t *testing.T) {
	testEnv(t)
	client := answerClient("Use **SafeMath**.<script>alert(1)</script> [x](javascript:alert(1))")
	deps, _, _ := newTestDeps(client)

	stdout, stderr, err := run(t, deps, nil, "--raw", "overflow?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stderr != "" {
		t.Errorf("raw mode should not write to stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "**SafeMath**") {
		t.Errorf("stdout = %q", stdout)
	}
	for _, bad := range []string{"<script", "alert(1)", "javascript:"} {
		if strings.Contains(stdout, bad) {
			t.Errorf("stdout contains %q: %q", bad, stdout)
		}
	}
}

func TestRunQuery_Input(t *testing.T) {
	tests := []struct {
		name  string
		args  func(dir string) []string
		stdin string
		want  string
	}{
		{
			name:  "stdin",
			args:  func(string) []string { return []string{"--raw"} },
			stdin: "  piped question \n",
			want:  "piped question",
		},
		{
			name: "file",
			args: func(dir string) []string {
				path := filepath.Join(dir, "q.md")
				_ = os.WriteFile(path, []byte("question from file\n"), 0o600)
				return []string{"--raw", "-f", path}
			},
			want: "question from file",
		},
		{
			name:  "argument wins over stdin",
			args:  func(string) []string { return []string{"--raw", "from arg"} },
			stdin: "from stdin",
			want:  "from arg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testEnv(t)
			client := answerClient("ok")
			deps, _, _ := newTestDeps(client)

			_, _, err := run(t, deps, strings.NewReader(tt.stdin), tt.args(t.TempDir())...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := client.Queries(); len(got) != 1 || got[0] != tt.want {
				t.Errorf("queries = %q, want [%q]", got, tt.want)
			}
		})
	}
}

func TestRunQuery_MissingFile(t *testing.T) {
	testEnv(t)
	deps, _, _ := newTestDeps(answerClient("ok"))

	_, _, err := run(t, deps, nil, "-f", filepath.Join(t.TempDir(), "missing.md"))
	if err == nil || !strings.Contains(err.Error(), "failed to read file") {
		t.Errorf("error = %v", err)
	}
}

func TestRunQuery_EmptyQuestion(t *testing.T) {
	testEnv(t)
	client := answerClient("ok")
	deps, _, _ := newTestDeps(client)

	_, _, err := run(t, deps, nil, "   ")
	if !errors.Is(err, apierrors.ErrEmptyQuery) {
		t.Errorf("error = %v, want ErrEmptyQuery", err)
	}
	if len(client.Queries()) != 0 {
		t.Error("blank question must not reach the server")
	}
}

func TestRunQuery_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		inline string
	}{
		{"server error", apierrors.NewAPIError(500, "", models.EndpointAsk), "Error: 500 Internal Server Error"},
		{"not found", apierrors.NewAPIError(404, "Not Found", models.EndpointAsk), "Error: 404 Not Found"},
		{"network", apierrors.NewNetworkError("ask", models.EndpointAsk, errors.New("connection refused")), "Error fetching response."},
		{"parse", apierrors.NewParseError("answer is not a string", "answer"), "Error fetching response."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testEnv(t)

			deps, _, _ := newTestDeps(&api.MockClient{AskErr: tt.err})
			stdout, stderr, err := run(t, deps, nil, "--raw", "q")
			if !errors.Is(err, errReported) {
				t.Fatalf("error = %v, want errReported", err)
			}
			if stdout != "" {
				t.Errorf("stdout = %q, want empty", stdout)
			}
			if stderr != tt.inline+"\n" {
				t.Errorf("raw stderr = %q, want %q", stderr, tt.inline+"\n")
			}

			deps, _, _ = newTestDeps(&api.MockClient{AskErr: tt.err})
			_, stderr, err = run(t, deps, nil, "q")
			if !errors.Is(err, errReported) {
				t.Fatalf("error = %v, want errReported", err)
			}
			if !strings.Contains(stderr, tt.inline) {
				t.Errorf("stderr missing %q:\n%s", tt.inline, stderr)
			}
		})
	}
}

func TestRunQuery_CancelledContext(t *testing.T) {
	testEnv(t)
	client := &api.MockClient{AskFunc: func(ctx context.Context, _ string) (*models.AskResponse, error) {
		return nil, apierrors.NewTimeoutError("ask", models.EndpointAsk, ctx.Err())
	}}
	deps, _, _ := newTestDeps(client)

	cmd := NewRootCmd(deps)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stderr strings.Builder
	cmd.SetOut(&strings.Builder{})
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs([]string{"--raw", "q"})

	if err := cmd.ExecuteContext(ctx); !errors.Is(err, errReported) {
		t.Fatalf("error = %v, want errReported", err)
	}
	if stderr.String() != apierrors.FetchFailedMessage+"\n" {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunQuery_OutputFile(t *testing.T) {
	testEnv(t)
	deps, _, _ := newTestDeps(answerClient("# Ownable\n\nRestricts access.", "access.md"))
	out := filepath.Join(t.TempDir(), "answer.md")

	stdout, stderr, err := run(t, deps, nil, "explain Ownable", "-o", out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "" {
		t.Errorf("stdout should be empty when saving, got %q", stdout)
	}
	if !strings.Contains(stderr, "Answer saved to "+out) {
		t.Errorf("stderr = %q", stderr)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "# Ownable\n\nRestricts access.\n" {
		t.Errorf("file = %q", got)
	}
}

func TestRunQuery_Clipboard(t *testing.T) {
	testEnv(t)
	cfg := config.DefaultConfig()
	cfg.CopyToClipboard = true
	if err := config.SaveConfig(cfg); err != nil {
		t.Fatal(err)
	}

	deps, _, copied := newTestDeps(answerClient("copy *me*"))
	_, stderr, err := run(t, deps, nil, "q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*copied) != 1 || (*copied)[0] != "copy *me*" {
		t.Errorf("clipboard = %q", *copied)
	}
	if !strings.Contains(stderr, "Copied to clipboard") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRunQuery_ClipboardFailureIsAWarning(t *testing.T) {
	testEnv(t)
	cfg := config.DefaultConfig()
	cfg.CopyToClipboard = true
	if err := config.SaveConfig(cfg); err != nil {
		t.Fatal(err)
	}

	deps, _, _ := newTestDeps(answerClient("text"))
	deps.Clipboard = func(string) error { return errors.New("no display") }

	stdout, stderr, err := run(t, deps, nil, "q")
	if err != nil {
		t.Fatalf("clipboard failure should not fail the query: %v", err)
	}
	if !strings.Contains(stderr, "Failed to copy to clipboard: no display") {
		t.Errorf("stderr = %q", stderr)
	}
	if !strings.Contains(stdout, "text") {
		t.Errorf("answer should still be printed, got %q", stdout)
	}
}
