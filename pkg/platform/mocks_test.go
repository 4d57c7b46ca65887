package platform

import (
	"context"

	"github.com/menta2k/meme-maker/pkg/share"
)

type recordingTarget struct {
	name      string
	available bool
	err       error
	got       []share.Payload
}

func (r *recordingTarget) Name() string    { return r.name }
func (r *recordingTarget) Available() bool { return r.available }
func (r *recordingTarget) Share(_ context.Context, p share.Payload) error {
	r.got = append(r.got, p)
	return r.err
}
