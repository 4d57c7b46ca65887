package exporter

import (
	"context"
)

type persisted struct {
	filename string
	data     []byte
}

type shared struct {
	title    string
	filename string
	data     []byte
	mimeType string
}

type fakePlatform struct {
	persisted  []persisted
	shared     []shared
	persistErr error
	shareErr   error
}

func (f *fakePlatform) Name() string { return "fake" }

func (f *fakePlatform) AcquireImage(context.Context) ([]byte, error) { return nil, nil }

func (f *fakePlatform) Persist(_ context.Context, filename string, data []byte) (string, error) {
	if f.persistErr != nil {
		return "", f.persistErr
	}
	f.persisted = append(f.persisted, persisted{filename, data})
	return "/data/" + filename, nil
}

func (f *fakePlatform) Share(_ context.Context, title, filename string, data []byte, mimeType string) error {
	if f.shareErr != nil {
		return f.shareErr
	}
	f.shared = append(f.shared, shared{title, filename, data, mimeType})
	return nil
}
