package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	apierrors "github.com/diogo/chaindocs/internal/errors"
	"github.com/diogo/chaindocs/internal/render"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "api error with body",
			err:      apierrors.NewAPIErrorWithBody(500, "", "http://localhost:8000/ask", `{"detail":"index missing"}`),
			contains: []string{"Error: 500 Internal Server Error", "HTTP Status: 500", "Endpoint: http://localhost:8000/ask", "index missing"},
		},
		{
			name:     "network error",
			err:      fmt.Errorf("ask: %w", apierrors.NewNetworkError("ask", "http://localhost:8000/ask", errors.New("refused"))),
			contains: []string{"Error fetching response.", "server is running"},
		},
		{
			name:     "timeout",
			err:      apierrors.NewTimeoutError("ask", "", errors.New("deadline")),
			contains: []string{"Error fetching response.", "timed out"},
		},
		{
			name:     "parse error",
			err:      apierrors.NewParseError("missing answer", "answer"),
			contains: []string{"Error fetching response.", "answer, sources"},
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			contains: []string{"Error fetching response.", "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FormatError(tt.err)
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("FormatError() = %q, should contain %q", out, want)
				}
			}
		})
	}

	if FormatError(nil) != "" {
		t.Error("FormatError(nil) should be empty")
	}
}

func TestUpdateThemeFollowsPalette(t *testing.T) {
	defer func() {
		render.SetPalette(render.DefaultPaletteName)
		UpdateTheme()
	}()

	if !render.SetPalette("nord") {
		t.Fatal("nord palette should exist")
	}
	UpdateTheme()

	nord, _ := render.PaletteByName("nord")
	if colorPrimary != nord.Primary {
		t.Errorf("colorPrimary = %s, want %s", colorPrimary, nord.Primary)
	}
	if colorError != nord.Error {
		t.Errorf("colorError = %s, want %s", colorError, nord.Error)
	}
}
