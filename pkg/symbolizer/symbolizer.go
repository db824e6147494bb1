package symbolizer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"golang.org/x/sync/singleflight"

	"github.com/robotsym/crashsym/pkg/codeobject"
	"github.com/robotsym/crashsym/pkg/debuginfo"
)

// Symbolizer resolves crash addresses to source locations. It asks its
// locators for candidate code objects and symbolizes the address against
// them with the first healthy reader.
type Symbolizer struct {
	logger   log.Logger
	cfg      Config
	fs       afero.Fs
	locators []codeobject.Locator
	readers  []debuginfo.Reader
	metrics  *metrics
	cache    *resultCache

	// healthy is the first reader known to work. It is re-checked on
	// every request and dropped as soon as the check fails.
	mu      sync.Mutex
	healthy debuginfo.Reader
	probes  singleflight.Group
}

// New builds a Symbolizer. fs is used to tell builds of a code object
// apart and may be nil when the result cache is disabled.
func New(logger log.Logger, cfg Config, reg prometheus.Registerer, fs afero.Fs, locators []codeobject.Locator, readers []debuginfo.Reader) (*Symbolizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if fs == nil && cfg.CacheSize > 0 {
		return nil, errors.New("the result cache requires a filesystem")
	}
	if len(locators) == 0 {
		return nil, errors.New("at least one locator is required")
	}
	if len(readers) == 0 {
		return nil, errors.New("at least one reader is required")
	}

	cache, err := newResultCache(cfg.CacheSize, cfg.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}

	return &Symbolizer{
		logger:   logger,
		cfg:      cfg,
		fs:       fs,
		locators: locators,
		readers:  readers,
		metrics:  newMetrics(reg),
		cache:    cache,
	}, nil
}

func (s *Symbolizer) Locators() []codeobject.Locator {
	return s.locators
}

func (s *Symbolizer) Readers() []debuginfo.Reader {
	return s.readers
}

// ReaderNames returns the display names of all configured readers in
// priority order.
func (s *Symbolizer) ReaderNames() []string {
	return lo.Map(s.readers, func(r debuginfo.Reader, _ int) string {
		return r.Name()
	})
}

// Purge drops every cached result, e.g. after the project was rebuilt.
func (s *Symbolizer) Purge() {
	s.cache.purge()
}

type readerResult struct {
	reader debuginfo.Reader
	err    error
}

// Resolve symbolizes address against the code objects of the project at
// projectRoot. A result without a location is returned only when no
// candidate yields one.
func (s *Symbolizer) Resolve(ctx context.Context, projectRoot string, address uint64) (sym *debuginfo.Symbol, err error) {
	start := time.Now()
	defer func() {
		status := resolutionStatus(err)
		if err == nil && !sym.HasLocation() {
			status = statusSymbolOnly
		}
		s.metrics.resolutions.WithLabelValues(status).Inc()
		s.metrics.resolutionDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}()

	return s.resolve(ctx, projectRoot, address)
}

func (s *Symbolizer) resolve(ctx context.Context, projectRoot string, address uint64) (*debuginfo.Symbol, error) {
	logger := log.With(s.logger, "project", projectRoot, "address", fmt.Sprintf("0x%x", address))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Checking readers and locating code objects are independent, so the
	// health check runs while the locators probe the filesystem.
	readerCh := make(chan readerResult, 1)
	go func() {
		r, err := s.HealthyReader(ctx)
		readerCh <- readerResult{reader: r, err: err}
	}()

	located, err := s.locate(ctx, logger, projectRoot)
	if err != nil {
		cancel()
		<-readerCh
		return nil, err
	}

	// A cached result is only valid for the builds it was resolved against.
	key := cacheKey{projectRoot: projectRoot, address: address}
	stamps := s.stamp(logger, located.CodeObjects)
	if cached, ok := s.cache.get(key, stamps); ok {
		<-readerCh
		s.metrics.cacheOperations.WithLabelValues("get", "hit").Inc()
		return cached, nil
	}
	if s.cache != nil {
		s.metrics.cacheOperations.WithLabelValues("get", "miss").Inc()
	}

	res := <-readerCh
	if res.err != nil {
		return nil, res.err
	}
	sym, err := s.resolveCandidates(ctx, logger, res.reader, address, located.CodeObjects)
	if err != nil {
		return nil, err
	}
	if s.cache.add(key, stamps, sym) {
		s.metrics.cacheOperations.WithLabelValues("add", statusSuccess).Inc()
	}
	return sym, nil
}

// stamp records the current build of every candidate, or nil when the
// cache is disabled or a candidate cannot be inspected.
func (s *Symbolizer) stamp(logger log.Logger, objects []codeobject.CodeObject) []objectStamp {
	if s.cache == nil {
		return nil
	}
	stamps := make([]objectStamp, 0, len(objects))
	for _, obj := range objects {
		fi, err := s.fs.Stat(obj.String())
		if err != nil {
			level.Debug(logger).Log("msg", "cannot stat code object, result will not be cached", "code_object", obj, "err", err)
			return nil
		}
		stamps = append(stamps, objectStamp{object: obj, modTime: fi.ModTime(), size: fi.Size()})
	}
	return stamps
}

// Located is the outcome of the locator fallback.
type Located struct {
	// Locator is the name of the first locator that found code objects.
	Locator     string
	CodeObjects []codeobject.CodeObject
}

// Locate runs the locators in priority order and returns the candidates of
// the first one that finds any.
func (s *Symbolizer) Locate(ctx context.Context, projectRoot string) (Located, error) {
	return s.locate(ctx, log.With(s.logger, "project", projectRoot), projectRoot)
}

func (s *Symbolizer) locate(ctx context.Context, logger log.Logger, projectRoot string) (Located, error) {
	var errs *multierror.Error
	for _, l := range s.locators {
		if err := ctx.Err(); err != nil {
			return Located{}, err
		}
		objects, err := l.Locate(ctx, projectRoot)
		switch {
		case err != nil && ctx.Err() != nil:
			return Located{}, ctx.Err()
		case codeobject.IsNotApplicable(err):
			s.metrics.locatorOutcomes.WithLabelValues(l.Name(), outcomeNotApplicable).Inc()
			level.Debug(logger).Log("msg", "locator not applicable", "locator", l.Name(), "err", err)
		case err != nil:
			s.metrics.locatorOutcomes.WithLabelValues(l.Name(), outcomeError).Inc()
			level.Warn(logger).Log("msg", "locator failed", "locator", l.Name(), "err", err)
			errs = appendError(errs, fmt.Errorf("locator %s: %w", l.Name(), err))
		case len(objects) == 0:
			s.metrics.locatorOutcomes.WithLabelValues(l.Name(), outcomeEmpty).Inc()
			level.Debug(logger).Log("msg", "locator found no code objects", "locator", l.Name())
		default:
			s.metrics.locatorOutcomes.WithLabelValues(l.Name(), outcomeHit).Inc()
			level.Debug(logger).Log("msg", "located code objects", "locator", l.Name(), "count", len(objects))
			return Located{Locator: l.Name(), CodeObjects: objects}, nil
		}
	}
	return Located{}, &NoCandidatesFoundError{
		ProjectRoot: projectRoot,
		Locators: lo.Map(s.locators, func(l codeobject.Locator, _ int) string {
			return l.Name()
		}),
		Errors: errs,
	}
}

func (s *Symbolizer) resolveCandidates(ctx context.Context, logger log.Logger, reader debuginfo.Reader, address uint64, objects []codeobject.CodeObject) (*debuginfo.Symbol, error) {
	var (
		best *debuginfo.Symbol
		errs *multierror.Error
	)
	for _, obj := range objects {
		sym, err := reader.Resolve(ctx, address, obj)
		if err == nil && sym == nil {
			err = fmt.Errorf("%s: %s: %w", reader.Name(), obj.Base(), debuginfo.ErrNoSymbolData)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.metrics.candidateAttempts.WithLabelValues(reader.Name(), outcomeError).Inc()
			level.Debug(logger).Log("msg", "reader failed for code object", "reader", reader.Name(), "code_object", obj, "err", err)
			errs = appendError(errs, err)
			continue
		}
		if sym.HasLocation() {
			s.metrics.candidateAttempts.WithLabelValues(reader.Name(), outcomeLocation).Inc()
			return sym, nil
		}
		s.metrics.candidateAttempts.WithLabelValues(reader.Name(), outcomeSymbol).Inc()
		level.Debug(logger).Log("msg", "symbol has no source location, trying remaining code objects", "reader", reader.Name(), "code_object", obj, "symbol", sym.Name)
		if best == nil {
			best = sym
		}
	}
	if best != nil {
		return best, nil
	}
	return nil, &AllCandidatesFailedError{Address: address, Errors: errs}
}

// HealthyReader returns the first reader, in priority order, that passes
// its health check. The previously found reader is re-checked first; if it
// stopped working every reader is probed again.
func (s *Symbolizer) HealthyReader(ctx context.Context) (debuginfo.Reader, error) {
	s.mu.Lock()
	cached := s.healthy
	s.mu.Unlock()

	if cached != nil {
		if s.probe(ctx, cached) {
			return cached, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		level.Warn(s.logger).Log("msg", "reader stopped working, probing all readers", "reader", cached.Name())
		s.mu.Lock()
		if s.healthy == cached {
			s.healthy = nil
		}
		s.mu.Unlock()
	}

	v, err, _ := s.probes.Do("probe", func() (interface{}, error) {
		return s.probeAll(ctx)
	})
	if err != nil && ctx.Err() == nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		// The shared probe belonged to a caller that gave up.
		return s.probeAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	return v.(debuginfo.Reader), nil
}

func (s *Symbolizer) probeAll(ctx context.Context) (debuginfo.Reader, error) {
	for _, r := range s.readers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !s.probe(ctx, r) {
			level.Debug(s.logger).Log("msg", "reader unavailable", "reader", r.Name())
			continue
		}
		s.mu.Lock()
		s.healthy = r
		s.mu.Unlock()
		level.Debug(s.logger).Log("msg", "using reader", "reader", r.Name())
		return r, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, &AllReadersUnavailableError{Readers: s.ReaderNames()}
}

func (s *Symbolizer) probe(ctx context.Context, r debuginfo.Reader) bool {
	ok := r.IsHealthy(ctx)
	status := statusHealthy
	if !ok {
		status = statusUnhealthy
	}
	s.metrics.readerProbes.WithLabelValues(r.Name(), status).Inc()
	return ok
}

// Dependencies are the capabilities the default locators and readers are
// built on.
type Dependencies struct {
	Fs     afero.Fs
	Runner debuginfo.Runner
	GOOS   string
}

// NewDefault builds a Symbolizer with the default locators and readers.
func NewDefault(logger log.Logger, cfg Config, reg prometheus.Registerer, deps Dependencies) (*Symbolizer, error) {
	return New(logger, cfg, reg, deps.Fs,
		codeobject.Default(deps.Fs, cfg.Locators),
		debuginfo.Default(cfg.Readers, deps.GOOS, deps.Runner),
	)
}
