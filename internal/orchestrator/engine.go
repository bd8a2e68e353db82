package orchestrator

import (
	"context"
	"errors"

	"github.com/1abhishek0948/Universal-Media-downloader/internal/extractor"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/policy"
	"github.com/1abhishek0948/Universal-Media-downloader/internal/types"
)

// Phases reported to an Observer.
const (
	PhaseStart   = "start"
	PhaseSuccess = "success"
	PhaseFailure = "failure"
)

// Observer receives one notification per backend attempt phase. err is set
// only for PhaseFailure.
type Observer func(ctx context.Context, op, backend, phase string, err error)

// Engine tries extraction backends in policy order until one succeeds.
type Engine struct {
	selector policy.Selector
	backends map[string]extractor.Extractor
	observer Observer
}

// NewEngine builds an engine over the given backends. A nil observer is allowed.
func NewEngine(selector policy.Selector, backends []extractor.Extractor, observer Observer) *Engine {
	byName := make(map[string]extractor.Extractor, len(backends))
	for _, b := range backends {
		byName[b.Name()] = b
	}
	return &Engine{
		selector: selector,
		backends: byName,
		observer: observer,
	}
}

// Extract resolves url with the first backend that succeeds.
func (e *Engine) Extract(ctx context.Context, url string) (*types.MediaInfo, error) {
	var out *types.MediaInfo
	err := e.run(ctx, "extract", url, func(ctx context.Context, b extractor.Extractor) error {
		info, err := b.Extract(ctx, url)
		if err != nil {
			return err
		}
		if info.Extractor == "" {
			info.Extractor = b.Name()
		}
		out = info
		return nil
	})
	return out, err
}

// Download performs req with the first backend that succeeds.
func (e *Engine) Download(ctx context.Context, req types.DownloadRequest) (*types.DownloadResult, error) {
	var out *types.DownloadResult
	err := e.run(ctx, "download", req.URL, func(ctx context.Context, b extractor.Extractor) error {
		res, err := b.Download(ctx, req)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	return out, err
}

func (e *Engine) run(ctx context.Context, op, url string, attempt func(context.Context, extractor.Extractor) error) error {
	var backends []extractor.Extractor
	for _, name := range e.selector.Select(url) {
		if b, ok := e.backends[name]; ok {
			backends = append(backends, b)
		}
	}
	if len(backends) == 0 {
		return types.ErrNoExtractorsAvailable
	}

	var attempts []AttemptError
	for _, b := range backends {
		if err := ctx.Err(); err != nil {
			attempts = append(attempts, AttemptError{Extractor: b.Name(), Err: err})
			break
		}
		bctx := types.WithExtractorName(ctx, b.Name())
		e.notify(bctx, op, b.Name(), PhaseStart, nil)
		err := attempt(bctx, b)
		if err == nil {
			e.notify(bctx, op, b.Name(), PhaseSuccess, nil)
			return nil
		}
		e.notify(bctx, op, b.Name(), PhaseFailure, err)
		attempts = append(attempts, AttemptError{Extractor: b.Name(), Err: err})
		if isDefinitive(err) {
			break
		}
	}
	return &AllExtractorsFailedError{Attempts: attempts}
}

func (e *Engine) notify(ctx context.Context, op, backend, phase string, err error) {
	if e.observer != nil {
		e.observer(ctx, op, backend, phase, err)
	}
}

// isDefinitive reports errors about the media itself, which another backend
// would only repeat.
func isDefinitive(err error) bool {
	return errors.Is(err, types.ErrRestricted) ||
		errors.Is(err, types.ErrLiveStream) ||
		errors.Is(err, types.ErrInvalidURL) ||
		errors.Is(err, context.Canceled)
}
