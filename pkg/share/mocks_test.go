package share

import (
	"context"
	"errors"
	"io"
)

type fakeTarget struct {
	name      string
	available bool
	err       error
	shared    []Payload
}

func (f *fakeTarget) Name() string    { return f.name }
func (f *fakeTarget) Available() bool { return f.available }
func (f *fakeTarget) Share(_ context.Context, p Payload) error {
	f.shared = append(f.shared, p)
	return f.err
}

type fakeBridge struct {
	title, url string
}

func (b *fakeBridge) Share(_ context.Context, title, url string) error {
	b.title, b.url = title, url
	return nil
}

type recordedRun struct {
	name  string
	args  []string
	stdin []byte
}

type fakeRunner struct {
	runs []recordedRun
	err  error
}

func (r *fakeRunner) run(_ context.Context, name string, args []string, stdin io.Reader) error {
	rec := recordedRun{name: name, args: args}
	if stdin != nil {
		rec.stdin, _ = io.ReadAll(stdin)
	}
	r.runs = append(r.runs, rec)
	return r.err
}

func lookOK(file string) (string, error) { return "/usr/bin/" + file, nil }

func lookMissing(string) (string, error) { return "", errors.New("not found") }
