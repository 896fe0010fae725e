// Package build turns a directory of markdown examples into JSON artifacts
// and a manifest.
package build

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/exampledeck/internal/checksum"
	"github.com/starford/exampledeck/internal/example"
	"github.com/starford/exampledeck/internal/jsonfile"
	"github.com/starford/exampledeck/internal/manifest"
	"github.com/starford/exampledeck/internal/models"
	"github.com/starford/exampledeck/internal/storage"
)

// Default output layout, relative to the output root.
const (
	DefaultExamplesDir  = "examples"
	DefaultManifestName = "manifest.json"
)

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for build diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithParser overrides the record parser.
func WithParser(p *example.Parser) Option {
	return func(b *Builder) {
		if p != nil {
			b.parser = p
		}
	}
}

// WithWorkers bounds the number of files processed at once.
// Values below one mean sequential processing.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		if n < 1 {
			n = 1
		}
		b.workers = n
	}
}

// WithClock sets the time source used to stamp the manifest.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// WithLayout sets the artifact directory and manifest file name.
func WithLayout(examplesDir, manifestName string) Option {
	return func(b *Builder) {
		if examplesDir != "" {
			b.examplesDir = examplesDir
		}
		if manifestName != "" {
			b.manifestName = manifestName
		}
	}
}

// WithVersion sets the manifest format version.
func WithVersion(v string) Option {
	return func(b *Builder) {
		if v != "" {
			b.version = v
		}
	}
}

// Builder runs one full build per Build call. It keeps no state between runs.
type Builder struct {
	source storage.Source
	sink   storage.Sink
	parser *example.Parser
	logger *slog.Logger

	workers      int
	now          func() time.Time
	examplesDir  string
	manifestName string
	version      string
}

// New creates a Builder reading from source and writing to sink.
func New(source storage.Source, sink storage.Sink, opts ...Option) *Builder {
	b := &Builder{
		source:       source,
		sink:         sink,
		logger:       slog.Default(),
		workers:      runtime.GOMAXPROCS(0),
		now:          time.Now,
		examplesDir:  DefaultExamplesDir,
		manifestName: DefaultManifestName,
		version:      manifest.DefaultVersion,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.parser == nil {
		b.parser = example.NewParser(b.logger)
	}
	return b
}

// ArtifactPath returns the output path of the artifact for id, relative to
// the output root. The same string is published as the manifest entry path.
func (b *Builder) ArtifactPath(id string) string {
	return path.Join(b.examplesDir, id+".json")
}

// ManifestName returns the manifest path relative to the output root.
func (b *Builder) ManifestName() string {
	return b.manifestName
}

// Build processes every source file and writes the manifest.
//
// Per-file failures (nothing parsed, read, encode or write errors) are logged
// and leave the file out of the manifest. Failing to list the sources or to
// write the manifest aborts the build with an error.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	started := b.now()

	files, err := b.source.List()
	if err != nil {
		return nil, fmt.Errorf("build: list sources: %w", err)
	}
	b.logger.Info("build: sources found", slog.Int("files", len(files)))

	report := newReport(manifest.New(b.version, started))

	var g errgroup.Group
	g.SetLimit(b.workers)
	for _, f := range files {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			b.processFile(f, report)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	data, err := jsonfile.Marshal(report.Manifest)
	if err != nil {
		return nil, fmt.Errorf("build: encode manifest: %w", err)
	}
	if err := b.sink.Write(b.manifestName, data); err != nil {
		return nil, fmt.Errorf("build: write manifest: %w", err)
	}

	report.finish(b.now().Sub(started))
	b.logger.Info("build: manifest written",
		slog.String("path", b.manifestName),
		slog.Int("count", report.Manifest.Count),
		slog.Int("skipped", len(report.Skipped)),
		slog.Int("failed", len(report.Failed)))

	return report, nil
}

// processFile builds one source file and records the outcome. It never fails
// the build.
func (b *Builder) processFile(f models.SourceFile, report *Report) {
	rec, sum, err := b.buildFile(f)
	switch {
	case err != nil:
		b.logger.Error("build: file failed",
			slog.String("file", f.Name),
			slog.String("error", err.Error()))
		report.fail(f.Name, err)
	case rec == nil:
		b.logger.Warn("build: no example parsed, skipping", slog.String("file", f.Name))
		report.skip(f.Name)
	default:
		artifact := b.ArtifactPath(rec.Identifier)
		report.Manifest.Add(rec.Identifier, manifest.EntryFor(rec, artifact))
		report.add(rec, sum)
		b.logger.Info("build: built",
			slog.String("file", f.Name),
			slog.String("slug", rec.Identifier),
			slog.String("path", artifact))
	}
}

// buildFile reads, parses and writes one example. A nil record with a nil
// error means the file held no well-formed example.
func (b *Builder) buildFile(f models.SourceFile) (*example.Record, string, error) {
	data, err := b.source.Read(f.Name)
	if err != nil {
		return nil, "", err
	}

	rec := b.parser.ParseFile(data)
	if rec == nil {
		return nil, "", nil
	}

	id, overridden := example.ReconcileIdentifier(rec.Identifier, f.ID)
	if overridden {
		b.logger.Warn("build: slug mismatch, using file name",
			slog.String("file", f.Name),
			slog.String("derived", rec.Identifier),
			slog.String("slug", id))
		rec.Identifier = id
	}

	out, err := jsonfile.Marshal(rec)
	if err != nil {
		return nil, "", fmt.Errorf("encode %s: %w", id, err)
	}
	if err := b.sink.Write(b.ArtifactPath(id), out); err != nil {
		return nil, "", err
	}
	return rec, checksum.Sum(out), nil
}
