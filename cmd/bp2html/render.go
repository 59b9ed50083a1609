package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	bp2html "github.com/alnah/go-bp2html"
	"github.com/alnah/go-bp2html/internal/config"
	"github.com/alnah/go-bp2html/internal/fileutil"
	"github.com/alnah/go-bp2html/internal/yamlutil"
)

// dirPermissions is used for output directories: rwxr-x---.
const dirPermissions = 0o750

// ErrBatchFailed reports that at least one file of a batch failed.
var ErrBatchFailed = errors.New("batch render failed")

// runRender orchestrates one invocation: configuration, renderer setup,
// then template listing, compilation, or rendering.
func runRender(ctx context.Context, positional []string, flags *renderFlags, env *Environment) (err error) {
	if err := validateWorkers(flags.io.workers); err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	configName := flags.common.config
	if configName == "" {
		configName = envCfg.ConfigPath
	}
	cfg, err := loadConfig(configName)
	if err != nil {
		return withHint(err, hintFor(err, configName, nil))
	}
	applyEnvConfig(envCfg, cfg)
	if err := mergeFlags(flags, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	renderer, err := newRenderer(cfg, logger, env)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := renderer.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	defer func() {
		err = withHint(err, hintFor(err, configName, renderer))
	}()

	if flags.io.list {
		return listTemplates(renderer, env.Stdout)
	}

	inputs := collectInputs(flags.io.input, positional)
	if len(inputs) == 0 {
		return ErrNoInput
	}

	if flags.io.compile {
		return runCompile(ctx, renderer, inputs, flags.io.output)
	}

	jobs, err := planJobs(inputs, flags.io.output, cfg.Output.DefaultDir, outputExt(flags.io.pdf))
	if err != nil {
		return err
	}

	opts := buildOptions(cfg)
	if len(jobs) == 1 {
		return renderOne(ctx, renderer, jobs[0], opts, flags.common, env)
	}

	results := renderer.RenderFiles(ctx, jobs, opts, cfg.Workers)
	if failed := printResults(results, flags.common, env); failed > 0 {
		return fmt.Errorf("%w: %d of %d file(s)", ErrBatchFailed, failed, len(results))
	}
	return nil
}

// loadConfig loads the named config, or returns defaults when name is empty.
func loadConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *renderFlags, cfg *config.Config) error {
	if flags.template.template != "" {
		cfg.Template = flags.template.template
	}
	if flags.template.templateDir != "" {
		cfg.TemplateDir = flags.template.templateDir
	}
	if flags.template.includePath != "" {
		cfg.IncludePath = flags.template.includePath
	}
	if flags.template.noFilter {
		cfg.FilterInput = boolPtr(false)
	}
	if flags.template.noCondense {
		cfg.CondenseNav = boolPtr(false)
	}
	if flags.template.fullWidth {
		cfg.FullWidth = true
	}

	if len(flags.template.locals) > 0 {
		locals := make(map[string]any, len(cfg.Locals)+len(flags.template.locals))
		for k, v := range cfg.Locals {
			locals[k] = v
		}
		for _, assignment := range flags.template.locals {
			key, value, err := yamlutil.ParseAssignment(assignment)
			if err != nil {
				return fmt.Errorf("--local: %w", err)
			}
			locals[key] = value
		}
		cfg.Locals = locals
	}

	if flags.io.workers > 0 {
		cfg.Workers = flags.io.workers
	}
	if flags.io.timeout != "" {
		cfg.Timeout = flags.io.timeout
	}

	if flags.common.logFormat != "" {
		cfg.Log.Format = flags.common.logFormat
	}
	if flags.common.verbose {
		cfg.Log.Level = "debug"
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }

// buildOptions maps the merged config to render options.
func buildOptions(cfg *config.Config) bp2html.Options {
	return bp2html.Options{
		Template:    cfg.Template,
		SkipFilter:  !cfg.Filter(),
		ExpandNav:   !cfg.Condense(),
		FullWidth:   cfg.FullWidth,
		IncludePath: cfg.IncludePath,
		Locals:      cfg.Locals,
	}
}

// newRenderer builds the renderer for the merged config.
func newRenderer(cfg *config.Config, logger bp2html.Logger, env *Environment) (*bp2html.Renderer, error) {
	opts := []bp2html.Option{
		bp2html.WithStdio(env.Stdin, env.Stdout),
		bp2html.WithClock(env.Now),
		bp2html.WithLogger(logger),
	}
	if cfg.TemplateDir != "" {
		opts = append(opts, bp2html.WithTemplateDir(cfg.TemplateDir))
	}
	// Validated by cfg.Validate
	if timeout, _ := cfg.TimeoutDuration(); timeout > 0 {
		opts = append(opts, bp2html.WithTimeout(timeout))
	}
	return bp2html.NewRenderer(opts...)
}

// listTemplates prints the selectable template names, one per line.
func listTemplates(renderer *bp2html.Renderer, w io.Writer) error {
	names, err := renderer.Templates()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	return nil
}

// collectInputs returns --input followed by the positional arguments.
func collectInputs(input string, positional []string) []string {
	inputs := make([]string, 0, len(positional)+1)
	if input != "" {
		inputs = append(inputs, input)
	}
	return append(inputs, positional...)
}

// runCompile writes the include-expanded text of a single input.
// Without --output the text goes to standard output.
func runCompile(ctx context.Context, renderer *bp2html.Renderer, inputs []string, output string) error {
	if len(inputs) != 1 {
		return fmt.Errorf("%w: --compile takes a single input, got %d", ErrUsage, len(inputs))
	}
	if output == "" {
		output = bp2html.Stdio
	}
	return renderer.CompileFile(ctx, inputs[0], output)
}

func outputExt(pdf bool) string {
	if pdf {
		return ".pdf"
	}
	return ".html"
}

// planJobs maps inputs to render jobs.
//
// A single file input writes to --output when it names a file, into it when
// it names an existing directory, and next to the input (or into the config
// default directory) otherwise. Standard input defaults to standard output.
// Several inputs, or a directory, always write into a directory.
func planJobs(inputs []string, output, defaultDir, ext string) ([]bp2html.Job, error) {
	if len(inputs) == 1 && !fileutil.DirExists(inputs[0]) {
		in := inputs[0]
		switch {
		case output != "" && !fileutil.DirExists(output):
			return []bp2html.Job{{Input: in, Output: output}}, nil
		case in == bp2html.Stdio && output == "":
			return []bp2html.Job{{Input: in, Output: bp2html.Stdio}}, nil
		}
	}

	if output == bp2html.Stdio {
		return nil, fmt.Errorf("%w: several outputs cannot be written to standard output", ErrUsage)
	}
	outputDir := output
	if outputDir == "" {
		outputDir = defaultDir
	}

	jobs, err := discoverJobs(inputs, outputDir, ext)
	if err != nil {
		return nil, err
	}
	if err := ensureOutputDirs(jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// ensureOutputDirs creates the parent directory of every file output.
func ensureOutputDirs(jobs []bp2html.Job) error {
	for _, job := range jobs {
		if job.Output == bp2html.Stdio {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(job.Output), dirPermissions); err != nil {
			return fmt.Errorf("%w: creating output directory: %w", bp2html.ErrWriteOutput, err)
		}
	}
	return nil
}

// renderOne renders a single job and reports its warnings.
func renderOne(ctx context.Context, renderer *bp2html.Renderer, job bp2html.Job, opts bp2html.Options, common commonFlags, env *Environment) error {
	start := time.Now()
	warnings, err := renderer.RenderFile(ctx, job.Input, job.Output, opts)
	if err != nil {
		return err
	}

	if !common.quiet {
		printWarnings(env.Stderr, inputLabel(job.Input), warnings)
	}
	printCreated(env.Stdout, bp2html.JobResult{Job: job, Duration: time.Since(start)}, common)
	return nil
}
