package editor

import (
	"context"
	"errors"
)

type fakePlatform struct {
	images     [][]byte
	acquireErr error

	persisted map[string][]byte
	sharedN   int
	shareErr  error
}

func (f *fakePlatform) Name() string { return "fake" }

func (f *fakePlatform) AcquireImage(context.Context) ([]byte, error) {
	if f.acquireErr != nil {
		return nil, f.acquireErr
	}
	if len(f.images) == 0 {
		return nil, errors.New("no more images")
	}
	data := f.images[0]
	f.images = f.images[1:]
	return data, nil
}

func (f *fakePlatform) Persist(_ context.Context, filename string, data []byte) (string, error) {
	if f.persisted == nil {
		f.persisted = map[string][]byte{}
	}
	f.persisted[filename] = data
	return "saved/" + filename, nil
}

func (f *fakePlatform) Share(context.Context, string, string, []byte, string) error {
	if f.shareErr != nil {
		return f.shareErr
	}
	f.sharedN++
	return nil
}
