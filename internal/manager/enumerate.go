package manager

import (
	"context"
	"sort"

	"github.com/camerarecorder/webcam/internal/backend"
	"github.com/camerarecorder/webcam/internal/core"
)

// enumerate queries be and normalizes the result: sort each device's
// resolutions (width desc, then height desc), drop adjacent duplicates, and
// discard any device left with zero resolutions.
func enumerate(ctx context.Context, be backend.PlatformBackend) ([]core.Info, error) {
	raw, err := be.ListDevices(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]core.Info, 0, len(raw))
	for _, r := range raw {
		resolutions := sortAndDedup(r.SupportedResolutions)
		if len(resolutions) == 0 {
			continue
		}
		infos = append(infos, core.Info{
			Name:        r.Name,
			Id:          r.Id,
			Resolutions: resolutions,
		})
	}
	return infos, nil
}

func sortAndDedup(in []core.Resolution) []core.Resolution {
	if len(in) == 0 {
		return nil
	}
	sorted := append([]core.Resolution(nil), in...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Greater(sorted[j])
	})

	out := make([]core.Resolution, 0, len(sorted))
	for i, r := range sorted {
		if i == 0 || !r.Equal(sorted[i-1]) {
			out = append(out, r)
		}
	}
	return out
}
