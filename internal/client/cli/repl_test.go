package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	failWith map[string]error

	calls []string
}

func (f *fakeExec) signedIn(context.Context) bool { return f.loggedIn }

func (f *fakeExec) routes(signedIn bool) []string {
	if signedIn {
		return []string{"dashboard", "posts"}
	}
	return []string{"signin", "signup"}
}

func (f *fakeExec) Navigate(_ context.Context, route string) error {
	f.calls = append(f.calls, route)
	if err := f.failWith[route]; err != nil {
		return err
	}
	if route == "signin" {
		f.loggedIn = true
	}
	return nil
}

func (f *fakeExec) SignOut(context.Context) error {
	f.calls = append(f.calls, "signout")
	f.loggedIn = false
	return nil
}

func captureLines(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_Dispatch(t *testing.T) {
	lines := captureLines(t)
	exec := &fakeExec{failWith: map[string]error{
		"foobar": fmt.Errorf("%w: foobar", errUnknownView),
		"posts":  errors.New("boom"),
	}}

	input := strings.Join([]string{
		"help",
		"signin",
		"",
		"help",
		"posts",
		"foobar",
		"signout",
		"exit",
		"dashboard",
	}, "\n")

	runREPL(context.Background(), exec, func() string { return "" }, rdr(input))

	assert.Equal(t, []string{"signin", "posts", "foobar", "signout"}, exec.calls)
	assert.Contains(t, *lines, "Available commands: exit, signin, signup")
	assert.Contains(t, *lines, "Available commands: dashboard, exit, posts, signout")
	assert.Contains(t, *lines, "Unknown command: foobar")
	assert.Contains(t, *lines, "Error: boom")
	assert.Equal(t, "Bye!", (*lines)[len(*lines)-1])
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	lines := captureLines(t)
	exec := &fakeExec{failWith: map[string]error{"signup": io.EOF}}

	runREPL(context.Background(), exec, func() string { return "(signed in)" }, rdr("signup\nposts\n"))

	assert.Equal(t, []string{"signup"}, exec.calls)
	assert.Equal(t, "eco (signed in)> ", (*lines)[0])
}

func TestRunREPL_EndOfInput(t *testing.T) {
	captureLines(t)
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("dashboard"))
	assert.Equal(t, []string{"dashboard"}, exec.calls)
}
