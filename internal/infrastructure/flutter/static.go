package flutter

import (
	"context"

	"kilometers.ai/buildcfg/internal/core/ports"
)

// StaticProvider returns the same versions for every project
type StaticProvider struct {
	versions ports.FlutterVersions
}

func NewStaticProvider(versions ports.FlutterVersions) *StaticProvider {
	return &StaticProvider{versions: versions}
}

func (p *StaticProvider) Versions(ctx context.Context, projectDir string) (ports.FlutterVersions, error) {
	if err := ctx.Err(); err != nil {
		return ports.FlutterVersions{}, err
	}
	return p.versions, nil
}

var _ ports.FlutterProvider = (*StaticProvider)(nil)
