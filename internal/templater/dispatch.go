package templater

import (
	"log/slog"

	"txsite/internal/metrics"
	"txsite/internal/rc"
)

// Kind is the family a resource type belongs to for templating purposes.
type Kind string

const (
	KindGeneric Kind = "generic"
	KindOBS     Kind = "obs"
	KindBible   Kind = "bible"
	KindTA      Kind = "ta"
)

// Strategy is the navigation a content kind is templated with.
type Strategy struct {
	Navigator func() Navigator
}

var strategies = map[Kind]Strategy{
	KindGeneric: {Navigator: func() Navigator { return FlatNavigator{} }},
	KindOBS:     {Navigator: func() Navigator { return FlatNavigator{} }},
	KindBible:   {Navigator: func() Navigator { return BookNavigator{} }},
	KindTA:      {Navigator: func() Navigator { return SectionNavigator{} }},
}

// KindOf maps a resource type tag to its Kind. Unknown tags are generic.
func KindOf(resourceType string) Kind {
	switch {
	case rc.IsBibleType(resourceType):
		return KindBible
	case resourceType == "obs":
		return KindOBS
	case resourceType == "ta":
		return KindTA
	default:
		return KindGeneric
	}
}

// Lookup returns the strategy for a resource type tag.
func Lookup(resourceType string) Strategy {
	return strategies[KindOf(resourceType)]
}

// Option configures a Templater built by New.
type Option func(*Templater)

func WithLogger(l *slog.Logger) Option {
	return func(t *Templater) { t.Logger = l }
}

func WithRecorder(r metrics.Recorder) Option {
	return func(t *Templater) { t.Recorder = r }
}

// WithMetadata skips reading manifest.yaml from the source directory.
func WithMetadata(m rc.Metadata) Option {
	return func(t *Templater) { t.Metadata = m }
}

// New returns a Templater wired with the navigation for resourceType.
func New(resourceType, sourceDir, outputDir, templateFile string, opts ...Option) *Templater {
	kind := KindOf(resourceType)
	t := &Templater{
		ResourceType: resourceType,
		SourceDir:    sourceDir,
		OutputDir:    outputDir,
		TemplateFile: templateFile,
		Navigator:    strategies[kind].Navigator(),
		kind:         kind,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Do templates the fragments in sourceDir into outputDir and returns the number of pages written.
func Do(resourceType, sourceDir, outputDir, templateFile string, opts ...Option) (int, error) {
	return New(resourceType, sourceDir, outputDir, templateFile, opts...).RunCount()
}
