package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubExec struct {
	loggedIn bool
	calls    []string
}

func (s *stubExec) record(name string) error {
	s.calls = append(s.calls, name)
	return nil
}

func (s *stubExec) isLoggedIn() bool                 { return s.loggedIn }
func (s *stubExec) Login(ctx context.Context) error  { return s.record("login") }
func (s *stubExec) Me(ctx context.Context) error     { return s.record("me") }
func (s *stubExec) Send(ctx context.Context) error   { return s.record("send") }
func (s *stubExec) Watch(ctx context.Context) error  { return s.record("watch") }
func (s *stubExec) Quest(ctx context.Context) error  { return s.record("quest") }
func (s *stubExec) Hint(ctx context.Context) error   { return s.record("hint") }
func (s *stubExec) Hack(ctx context.Context) error   { return s.record("hack") }
func (s *stubExec) Public(ctx context.Context) error { return s.record("public") }
func (s *stubExec) Reroll(ctx context.Context) error { return s.record("reroll") }
func (s *stubExec) Logout(ctx context.Context) error { return s.record("logout") }

func runScript(t *testing.T, stub *stubExec, script string) []string {
	t.Helper()

	var output []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		output = append(output, strings.Join(parts, " "))
		return 0, nil
	}
	defer func() { printlnFn = orig }()

	scanner := bufio.NewScanner(strings.NewReader(script))
	runREPL(context.Background(), stub, func() string { return "test" }, scanner)
	return output
}

func TestREPLDispatch(t *testing.T) {
	stub := &stubExec{loggedIn: true}
	runScript(t, stub, "login\nme\nsend\nquest\nhack\nreroll\nlogout\nexit\n")

	assert.Equal(t, []string{"login", "me", "send", "quest", "hack", "reroll", "logout"}, stub.calls)
}

func TestREPLUnknownCommand(t *testing.T) {
	stub := &stubExec{}
	output := runScript(t, stub, "frobnicate\nexit\n")

	assert.Empty(t, stub.calls)
	joined := strings.Join(output, "\n")
	assert.Contains(t, joined, "Unknown command:")
}

func TestREPLHelpDependsOnLoginState(t *testing.T) {
	stub := &stubExec{}
	output := strings.Join(runScript(t, stub, "help\nexit\n"), "\n")
	assert.Contains(t, output, "login")
	assert.NotContains(t, output, "logout")

	stub = &stubExec{loggedIn: true}
	output = strings.Join(runScript(t, stub, "help\nexit\n"), "\n")
	assert.Contains(t, output, "logout")
}

func TestREPLExitsOnEOF(t *testing.T) {
	stub := &stubExec{}
	runScript(t, stub, "me\n")
	assert.Equal(t, []string{"me"}, stub.calls)
}
