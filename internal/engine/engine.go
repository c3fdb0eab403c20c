// Package engine orchestrates conversions: it resolves the source format,
// picks a direct converter or pivots through OpenAPI 3, and validates the
// output against the target format schema.
package engine

import (
	"bytes"
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/specconv/specconv/internal/adapters/converters"
	"github.com/specconv/specconv/internal/detect"
	"github.com/specconv/specconv/internal/domain"
	"github.com/specconv/specconv/internal/validator"
)

// Engine ties the converter registry and the validator together.
type Engine struct {
	registry  *converters.Registry
	validator *validator.Validator
	logger    zerolog.Logger
}

// New creates an Engine.
func New(registry *converters.Registry, v *validator.Validator, logger zerolog.Logger) *Engine {
	return &Engine{
		registry:  registry,
		validator: v,
		logger:    logger,
	}
}

// Registry exposes the converter registry, for listing supported pairs.
func (e *Engine) Registry() *converters.Registry {
	return e.registry
}

// Convert runs one conversion. An empty from triggers content detection
// with the optional hint (usually a filename); to is mandatory. When no
// direct converter exists for the pair, the engine pivots through OpenAPI 3
// if both halves of the chain are registered.
func (e *Engine) Convert(ctx context.Context, doc domain.Document, from, to domain.Format, hint string, opts domain.Options) (*domain.Result, error) {
	if to == "" {
		return nil, domain.ErrTargetFormatRequired
	}

	if from == "" {
		detected, ok := detect.Detect(doc, hint)
		if !ok {
			return nil, domain.ErrFormatUndetected
		}
		from = detected
		e.logger.Debug().Str("format", string(from)).Msg("detected source format")
	}

	e.logger.Info().
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("converting")

	if !to.IsSpec() {
		return e.render(doc, from, to, opts)
	}

	out, err := e.convert(doc, from, to, opts)
	if err != nil {
		return nil, err
	}

	result := &domain.Result{Document: out, Source: from, Target: to}
	if !opts.NoValidate {
		vr, err := e.validator.ValidateFormat(out, to)
		if err != nil {
			return nil, err
		}
		if vr.Valid && to == domain.FormatOpenAPI3 {
			// The bundled schema is shallow; kin-openapi also catches
			// semantic problems such as dangling $refs.
			deep, err := e.validator.ValidateOpenAPI3Deep(ctx, out)
			if err != nil {
				return nil, err
			}
			vr = deep
		}
		result.Validation = &vr
		if !vr.Valid {
			e.logger.Warn().
				Str("path", vr.Path).
				Str("error", vr.Error).
				Msg("converted document failed validation")
			if opts.Strict {
				return nil, fmt.Errorf("%w: %s at %s", domain.ErrOutputValidationFailed, vr.Error, vr.Path)
			}
		}
	}
	return result, nil
}

// convert finds a direct converter or chains through OpenAPI 3.
func (e *Engine) convert(doc domain.Document, from, to domain.Format, opts domain.Options) (domain.Document, error) {
	if c, err := e.registry.Converter(from, to); err == nil {
		return c.Convert(doc, opts)
	}

	first, err := e.registry.Converter(from, domain.FormatOpenAPI3)
	if err != nil {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrUnsupportedConversion, from, to)
	}
	second, err := e.registry.Converter(domain.FormatOpenAPI3, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrUnsupportedConversion, from, to)
	}

	e.logger.Debug().
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("no direct converter, pivoting through openapi3")

	pivot, err := first.Convert(doc, opts)
	if err != nil {
		return nil, err
	}
	return second.Convert(pivot, opts)
}

// render converts to OpenAPI 3 first when needed, then renders.
func (e *Engine) render(doc domain.Document, from, to domain.Format, opts domain.Options) (*domain.Result, error) {
	working := doc
	if from != domain.FormatOpenAPI3 {
		converted, err := e.convert(doc, from, domain.FormatOpenAPI3, opts)
		if err != nil {
			return nil, err
		}
		working = converted
	}

	renderer, err := e.registry.Renderer(domain.FormatOpenAPI3, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrUnsupportedConversion, from, to)
	}

	var buf bytes.Buffer
	if err := renderer.Render(working, &buf); err != nil {
		return nil, err
	}
	return &domain.Result{Rendered: buf.Bytes(), Source: from, Target: to}, nil
}

