package converters

import (
	"fmt"

	"github.com/specconv/specconv/internal/domain"
)

type pair struct {
	from domain.Format
	to   domain.Format
}

// Registry holds the available converters and renderers keyed by their
// (source, target) pair. Only directly supported pairs are registered;
// chaining through an intermediate format is the orchestrator's job.
type Registry struct {
	converters map[pair]domain.Converter
	renderers  map[pair]domain.Renderer
	order      []pair
}

// NewRegistry builds a registry with every built-in converter and renderer.
func NewRegistry() *Registry {
	r := &Registry{
		converters: map[pair]domain.Converter{},
		renderers:  map[pair]domain.Renderer{},
	}

	r.RegisterConverter(NewHARToOpenAPI3())
	r.RegisterConverter(NewOpenAPI3ToSwagger())
	r.RegisterConverter(NewSwaggerToOpenAPI3())
	r.RegisterConverter(NewHoppscotchToOpenAPI3())
	r.RegisterConverter(NewPostmanToHAR())
	r.RegisterConverter(NewPostmanToOpenAPI3())
	r.RegisterConverter(NewOpenAPI3Passthrough())

	r.RegisterRenderer(NewPDFRenderer())
	r.RegisterRenderer(NewDocxRenderer())

	return r
}

// RegisterConverter adds a converter, replacing any existing registration
// for the same pair.
func (r *Registry) RegisterConverter(c domain.Converter) {
	key := pair{from: c.Source(), to: c.Target()}
	if _, exists := r.converters[key]; !exists {
		r.order = append(r.order, key)
	}
	r.converters[key] = c
}

// RegisterRenderer adds a renderer, replacing any existing registration
// for the same pair.
func (r *Registry) RegisterRenderer(rd domain.Renderer) {
	key := pair{from: rd.Source(), to: rd.Target()}
	if _, exists := r.renderers[key]; !exists {
		r.order = append(r.order, key)
	}
	r.renderers[key] = rd
}

// Converter returns the converter for the exact (from, to) pair.
func (r *Registry) Converter(from, to domain.Format) (domain.Converter, error) {
	c, ok := r.converters[pair{from: from, to: to}]
	if !ok {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrUnsupportedConversion, from, to)
	}
	return c, nil
}

// Renderer returns the renderer for the exact (from, to) pair.
func (r *Registry) Renderer(from, to domain.Format) (domain.Renderer, error) {
	rd, ok := r.renderers[pair{from: from, to: to}]
	if !ok {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrUnsupportedConversion, from, to)
	}
	return rd, nil
}

// Supports reports whether the exact pair is registered, as a converter or
// as a renderer.
func (r *Registry) Supports(from, to domain.Format) bool {
	if _, ok := r.converters[pair{from: from, to: to}]; ok {
		return true
	}
	_, ok := r.renderers[pair{from: from, to: to}]
	return ok
}

// Conversions lists every registered pair in registration order.
func (r *Registry) Conversions() [][2]domain.Format {
	out := make([][2]domain.Format, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, [2]domain.Format{key.from, key.to})
	}
	return out
}
