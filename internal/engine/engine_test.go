package engine

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specconv/specconv/internal/adapters/converters"
	"github.com/specconv/specconv/internal/domain"
	"github.com/specconv/specconv/internal/schemas"
	"github.com/specconv/specconv/internal/validator"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	registry, err := schemas.New()
	require.NoError(t, err)
	return New(converters.NewRegistry(), validator.New(registry), zerolog.Nop())
}

func sampleHAR() domain.Document {
	return domain.Document{
		"log": map[string]any{
			"version": "1.2",
			"entries": []any{
				map[string]any{
					"request": map[string]any{
						"method": "GET",
						"url":    "https://api.example.com/users",
					},
					"response": map[string]any{
						"status":     200,
						"statusText": "OK",
					},
				},
			},
		},
	}
}

func TestConvertRequiresTarget(t *testing.T) {
	e := newEngine(t)

	_, err := e.Convert(context.Background(), sampleHAR(), domain.FormatHAR, "", "", domain.Options{})
	assert.ErrorIs(t, err, domain.ErrTargetFormatRequired)
}

func TestConvertDetectsSource(t *testing.T) {
	e := newEngine(t)

	result, err := e.Convert(context.Background(), sampleHAR(), "", domain.FormatOpenAPI3, "", domain.Options{})
	require.NoError(t, err)

	assert.Equal(t, domain.FormatHAR, result.Source)
	assert.Equal(t, domain.FormatOpenAPI3, result.Target)
	assert.Equal(t, "3.0.0", result.Document["openapi"])
	require.NotNil(t, result.Validation)
	assert.True(t, result.Validation.Valid)
}

func TestConvertUndetectable(t *testing.T) {
	e := newEngine(t)

	_, err := e.Convert(context.Background(), domain.Document{"hello": "world"}, "", domain.FormatOpenAPI3, "", domain.Options{})
	assert.ErrorIs(t, err, domain.ErrFormatUndetected)
}

func TestConvertPivotsThroughOpenAPI3(t *testing.T) {
	e := newEngine(t)

	// No direct har to swagger converter is registered; the engine chains
	// har to openapi3 to swagger.
	result, err := e.Convert(context.Background(), sampleHAR(), domain.FormatHAR, domain.FormatSwagger, "", domain.Options{})
	require.NoError(t, err)

	assert.Equal(t, "2.0", result.Document["swagger"])
	assert.Equal(t, "api.example.com", result.Document["host"])
	require.NotNil(t, result.Validation)
	assert.True(t, result.Validation.Valid)
}

func TestConvertUnsupportedPair(t *testing.T) {
	e := newEngine(t)

	doc := domain.Document{
		"openapi": "3.0.0",
		"info":    map[string]any{"title": "API", "version": "1.0.0"},
		"paths":   map[string]any{},
	}
	_, err := e.Convert(context.Background(), doc, domain.FormatOpenAPI3, domain.FormatHAR, "", domain.Options{})
	assert.ErrorIs(t, err, domain.ErrUnsupportedConversion)
}

func TestConvertNoValidateSkipsValidation(t *testing.T) {
	e := newEngine(t)

	result, err := e.Convert(context.Background(), sampleHAR(), domain.FormatHAR, domain.FormatOpenAPI3, "", domain.Options{NoValidate: true})
	require.NoError(t, err)
	assert.Nil(t, result.Validation)
}

func TestConvertStrictFailsOnInvalidOutput(t *testing.T) {
	e := newEngine(t)

	// The passthrough copies the document as is, so a bare openapi key
	// yields output that misses the required info and paths.
	doc := domain.Document{"openapi": "3.0.0"}

	result, err := e.Convert(context.Background(), doc, domain.FormatOpenAPI3, domain.FormatOpenAPI3, "", domain.Options{})
	require.NoError(t, err)
	require.NotNil(t, result.Validation)
	assert.False(t, result.Validation.Valid)

	_, err = e.Convert(context.Background(), doc, domain.FormatOpenAPI3, domain.FormatOpenAPI3, "", domain.Options{Strict: true})
	assert.ErrorIs(t, err, domain.ErrOutputValidationFailed)
}

func TestConvertRendersPDF(t *testing.T) {
	e := newEngine(t)

	result, err := e.Convert(context.Background(), sampleHAR(), domain.FormatHAR, domain.FormatPDF, "", domain.Options{})
	require.NoError(t, err)

	assert.Nil(t, result.Document)
	assert.NotEmpty(t, result.Rendered)
	assert.Equal(t, "%PDF", string(result.Rendered[:4]))
}

func TestConvertRendersDocxFromSwagger(t *testing.T) {
	e := newEngine(t)

	doc := domain.Document{
		"swagger": "2.0",
		"info":    map[string]any{"title": "API", "version": "1.0.0"},
		"paths":   map[string]any{},
	}
	result, err := e.Convert(context.Background(), doc, "", domain.FormatDocx, "", domain.Options{})
	require.NoError(t, err)

	assert.Equal(t, domain.FormatSwagger, result.Source)
	assert.NotEmpty(t, result.Rendered)
}

func TestConvertHintResolvesAmbiguity(t *testing.T) {
	e := newEngine(t)

	doc := domain.Document{"log": map[string]any{"entries": []any{}}}
	result, err := e.Convert(context.Background(), doc, "", domain.FormatOpenAPI3, "capture.har", domain.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.FormatHAR, result.Source)
}
