// Package cli provides the command-line interface for the converter.
package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/specconv/specconv/internal/adapters/converters"
	"github.com/specconv/specconv/internal/config"
	"github.com/specconv/specconv/internal/detect"
	"github.com/specconv/specconv/internal/domain"
	"github.com/specconv/specconv/internal/engine"
	"github.com/specconv/specconv/internal/fileio"
	"github.com/specconv/specconv/internal/schemas"
	"github.com/specconv/specconv/internal/server"
	"github.com/specconv/specconv/internal/validator"
)

// CLI holds the command-line interface configuration.
type CLI struct {
	log       zerolog.Logger
	engine    *engine.Engine
	validator *validator.Validator
	rootCmd   *cobra.Command

	inputFile  string
	outputFile string
	from       string
	to         string

	title       string
	apiVersion  string
	description string
	servers     []string
	basePath    string
	skipAuth    bool
	noValidate  bool
	strict      bool

	configFile string
	listen     string
}

// New creates a new CLI instance.
func New(log zerolog.Logger) (*CLI, error) {
	registry, err := schemas.New()
	if err != nil {
		return nil, fmt.Errorf("load schemas: %w", err)
	}

	v := validator.New(registry)
	cli := &CLI{
		log:       log,
		engine:    engine.New(converters.NewRegistry(), v, log),
		validator: v,
	}

	cli.rootCmd = &cobra.Command{
		Use:           "specconv",
		Short:         "Convert between API description formats",
		Long:          "Converts HAR captures, Postman and Hoppscotch collections, Swagger 2.0 and OpenAPI 3 specifications between each other, and renders OpenAPI 3 specs as PDF or Word documents.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cli.rootCmd.AddCommand(cli.convertCmd())
	cli.rootCmd.AddCommand(cli.lintCmd())
	cli.rootCmd.AddCommand(cli.formatsCmd())
	cli.rootCmd.AddCommand(cli.serveCmd())

	return cli, nil
}

// Execute runs the CLI.
func (c *CLI) Execute() error {
	return c.rootCmd.Execute()
}

func (c *CLI) convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a file from one format to another",
		RunE:  c.runConvert,
	}

	cmd.Flags().StringVarP(&c.inputFile, "input", "i", "", "Path to the input file (required)")
	cmd.Flags().StringVarP(&c.outputFile, "output", "o", "", "Path for the output file (required)")
	cmd.Flags().StringVar(&c.from, "from", "", "Source format (detected from content when omitted)")
	cmd.Flags().StringVar(&c.to, "to", "", "Target format (inferred from the output extension when omitted)")

	cmd.Flags().StringVar(&c.title, "title", "", "Override the generated info.title")
	cmd.Flags().StringVar(&c.apiVersion, "api-version", "", "Override the generated info.version")
	cmd.Flags().StringVar(&c.description, "description", "", "Override the generated info.description")
	cmd.Flags().StringArrayVar(&c.servers, "server", nil, "Server URL for the generated spec (repeatable)")
	cmd.Flags().StringVar(&c.basePath, "base-path", "", "Base path appended to the derived server URL")
	cmd.Flags().BoolVar(&c.skipAuth, "skip-auth", false, "Drop captured authentication headers")
	cmd.Flags().BoolVar(&c.noValidate, "no-validate", false, "Skip output validation")
	cmd.Flags().BoolVar(&c.strict, "strict", false, "Treat a validation failure as an error")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (c *CLI) runConvert(cmd *cobra.Command, _ []string) error {
	doc, err := fileio.Load(c.inputFile)
	if err != nil {
		return err
	}

	var from domain.Format
	if c.from != "" {
		parsed, ok := domain.ParseFormat(c.from)
		if !ok {
			return fmt.Errorf("unknown source format %q", c.from)
		}
		from = parsed
	}

	var to domain.Format
	if c.to != "" {
		parsed, ok := domain.ParseFormat(c.to)
		if !ok {
			return fmt.Errorf("unknown target format %q", c.to)
		}
		to = parsed
	} else if inferred, ok := detect.TargetFromPath(c.outputFile); ok {
		to = inferred
	}

	opts := domain.Options{
		Title:       c.title,
		Version:     c.apiVersion,
		Description: c.description,
		Servers:     c.servers,
		BasePath:    c.basePath,
		SkipAuth:    c.skipAuth,
		NoValidate:  c.noValidate,
		Strict:      c.strict,
	}

	result, err := c.engine.Convert(cmd.Context(), doc, from, to, c.inputFile, opts)
	if err != nil {
		return err
	}

	if result.Validation != nil && !result.Validation.Valid {
		c.log.Warn().
			Str("path", result.Validation.Path).
			Str("error", result.Validation.Error).
			Msg("output failed validation")
	}

	if result.Rendered != nil {
		if err := fileio.WriteRaw(result.Rendered, c.outputFile); err != nil {
			return err
		}
	} else if err := fileio.Save(result.Document, c.outputFile); err != nil {
		return err
	}

	c.log.Info().
		Str("from", string(result.Source)).
		Str("to", string(result.Target)).
		Str("output", c.outputFile).
		Msg("converted")
	return nil
}

func (c *CLI) lintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Validate a file against its format schema",
		RunE:  c.runLint,
	}
	cmd.Flags().StringVarP(&c.inputFile, "input", "i", "", "Path to the file to validate (required)")
	cmd.Flags().StringVar(&c.from, "from", "", "Format to validate against (detected from content when omitted)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func (c *CLI) runLint(cmd *cobra.Command, _ []string) error {
	doc, err := fileio.Load(c.inputFile)
	if err != nil {
		return err
	}

	var format domain.Format
	if c.from != "" {
		parsed, ok := domain.ParseFormat(c.from)
		if !ok {
			return fmt.Errorf("unknown format %q", c.from)
		}
		format = parsed
	} else {
		detected, ok := detect.Detect(doc, c.inputFile)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrFormatUndetected, c.inputFile)
		}
		format = detected
	}

	result, err := c.validator.ValidateFormat(doc, format)
	if err != nil {
		return err
	}
	if result.Valid && format == domain.FormatOpenAPI3 {
		result, err = c.validator.ValidateOpenAPI3Deep(cmd.Context(), doc)
		if err != nil {
			return err
		}
	}

	if !result.Valid {
		if result.Path != "" {
			return fmt.Errorf("%s is not a valid %s document: %s at %s", c.inputFile, format, result.Error, result.Path)
		}
		return fmt.Errorf("%s is not a valid %s document: %s", c.inputFile, format, result.Error)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid %s document\n", c.inputFile, format)
	return nil
}

func (c *CLI) formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the supported formats and conversions",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Formats:")
			for _, f := range domain.Formats() {
				fmt.Fprintf(out, "  %-12s %s\n", f, f.Info().Description)
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Conversions:")
			for _, pair := range c.engine.Registry().Conversions() {
				fmt.Fprintf(out, "  %s -> %s\n", pair[0], pair[1])
			}
		},
	}
}

func (c *CLI) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(c.configFile)
			if err != nil {
				return err
			}
			if c.listen != "" {
				cfg.Listen = c.listen
			}
			if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
				c.log = c.log.Level(level)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(c.engine, cfg, c.log)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVarP(&c.configFile, "config", "c", "", "Path to a YAML config file")
	cmd.Flags().StringVarP(&c.listen, "listen", "l", "", "Bind address (overrides config)")

	return cmd
}
