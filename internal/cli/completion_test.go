package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aryankumar/swarmwatch/internal/cli/clitest"
	"github.com/aryankumar/swarmwatch/internal/orchestrator/orchestratortest"
	"github.com/spf13/cobra"
)

func TestCompletionCommand(t *testing.T) {
	tests := []struct {
		name        string
		shell       string
		wantErr     bool
		errContains string
		contains    []string
	}{
		{
			name:    "bash completion",
			shell:   "bash",
			wantErr: false,
			contains: []string{
				"bash completion",
				"__start_swarmwatch",
			},
		},
		{
			name:    "zsh completion",
			shell:   "zsh",
			wantErr: false,
			contains: []string{
				"#compdef swarmwatch",
			},
		},
		{
			name:    "fish completion",
			shell:   "fish",
			wantErr: false,
			contains: []string{
				"fish completion",
				"complete -c swarmwatch",
			},
		},
		{
			name:    "powershell completion",
			shell:   "powershell",
			wantErr: false,
			contains: []string{
				"Register-ArgumentCompleter",
				"swarmwatch",
			},
		},
		{
			name:        "invalid shell",
			shell:       "invalid",
			wantErr:     true,
			errContains: "invalid argument",
		},
		{
			name:        "no arguments",
			shell:       "",
			wantErr:     true,
			errContains: "accepts 1 arg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootCmd := newRootCmd()

			var args []string
			if tt.shell != "" {
				args = []string{"completion", tt.shell}
			} else {
				args = []string{"completion"}
			}

			rootCmd.SetArgs(args)

			// Capture both stdout and stderr
			output := &bytes.Buffer{}
			errOutput := &bytes.Buffer{}
			rootCmd.SetOut(output)
			rootCmd.SetErr(errOutput)

			err := rootCmd.Execute()

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errContains)
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error containing %q, got %q", tt.errContains, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v\nStderr: %s", err, errOutput.String())
			}

			for _, want := range tt.contains {
				if !strings.Contains(output.String(), want) {
					t.Errorf("expected completion script to contain %q", want)
				}
			}
		})
	}
}

func TestCompletionCommand_Help(t *testing.T) {
	cmd := newCompletionCmd()
	cmd.SetArgs([]string{"--help"})

	output := &bytes.Buffer{}
	cmd.SetOut(output)

	err := cmd.Execute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	help := output.String()

	expectedStrings := []string{
		"Generate shell completion scripts",
		"bash",
		"zsh",
		"fish",
		"powershell",
		"# Bash",
		"# Zsh",
		"# Fish",
		"# PowerShell",
		"endpoint names",
	}

	for _, want := range expectedStrings {
		if !strings.Contains(help, want) {
			t.Errorf("expected help to contain %q", want)
		}
	}
}

// complete runs cobra's hidden completion request and returns the suggested
// values and the trailing directive line
func complete(t *testing.T, args ...string) ([]string, string) {
	t.Helper()

	rootCmd := newRootCmd()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{cobra.ShellCompNoDescRequestCmd}, args...))

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("completion request failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	return lines[:len(lines)-1], lines[len(lines)-1]
}

func TestDynamicCompletion(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		want          []string
		wantDirective string
	}{
		{
			name:          "endpoint flag",
			args:          []string{"status", "--endpoint", ""},
			want:          []string{"east", "edge", "west"},
			wantDirective: ":4",
		},
		{
			name:          "endpoint flag with prefix",
			args:          []string{"get", "nodes", "-e", "e"},
			want:          []string{"east", "edge"},
			wantDirective: ":4",
		},
		{
			name:          "endpoint use argument",
			args:          []string{"endpoint", "use", "w"},
			want:          []string{"west"},
			wantDirective: ":4",
		},
		{
			name:          "output formats",
			args:          []string{"status", "--output", ""},
			want:          []string{"table", "json", "yaml"},
			wantDirective: ":4",
		},
		{
			name:          "log formats",
			args:          []string{"status", "--log-format", ""},
			want:          []string{"text", "json"},
			wantDirective: ":4",
		},
		{
			name: "completion shells",
			args: []string{"completion", ""},
			want: []string{"bash", "zsh", "fish", "powershell"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clitest.Setup(t, map[string]*orchestratortest.Client{
				"east": orchestratortest.Cluster(),
				"edge": orchestratortest.Cluster(),
				"west": orchestratortest.Cluster(),
			})

			got, directive := complete(t, tt.args...)

			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("completions = %v, want %v", got, tt.want)
			}
			if tt.wantDirective != "" && directive != tt.wantDirective {
				t.Errorf("directive = %q, want %q", directive, tt.wantDirective)
			}
		})
	}
}
