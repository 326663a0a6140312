package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/chrisuehlinger/videostory/config"
	"github.com/chrisuehlinger/videostory/dom"
	"github.com/chrisuehlinger/videostory/eventloop"
	"github.com/chrisuehlinger/videostory/js"
	"github.com/chrisuehlinger/videostory/network"
	"github.com/chrisuehlinger/videostory/story"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configPath   string
	manifestPath string
	tree         bool
	noScripts    bool
}

func newRootCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "videostory [flags] <page.html|URL>",
		Short:        "Mount video stories into a page and print the result",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "configuration file (YAML)")
	flags.StringVar(&opts.manifestPath, "manifest", "", "story manifest (YAML)")
	flags.BoolVar(&opts.tree, "tree", false, "print the document tree instead of HTML")
	flags.BoolVar(&opts.noScripts, "no-scripts", false, "do not run page scripts")
	return cmd
}

// newTrace returns the command's trace, logging through the standard
// library logger at the configured level. Every package tracer selects it.
func newTrace(level string) tracing.Trace {
	trace := gologadapter.New()
	trace.SetTraceLevel(tracing.TraceLevelFromString(level))
	tracing.SetTraceSelector(tracing.SelectorForAdapter(func() tracing.Trace { return trace }))
	return trace
}

func run(ctx context.Context, out io.Writer, target string, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	trace := newTrace(cfg.Trace.Level)

	manifest, err := config.LoadManifest(opts.manifestPath)
	if err != nil {
		return err
	}

	loader, pageURL, err := newLoader(cfg, target)
	if err != nil {
		return err
	}
	page, err := network.NewDocumentLoader(loader).Load(ctx, pageURL)
	if err != nil {
		return err
	}
	for _, resErr := range page.Errors {
		trace.Infof("resource: %v", resErr)
	}
	trace.Debugf("%s: %d stylesheets, %d scripts", pageURL, len(page.StyleSheets()), len(page.Scripts))

	waitCtx, cancel := context.WithTimeout(ctx, cfg.Wait.Timeout)
	defer cancel()

	loop := eventloop.New()
	mounter := story.NewMounter(loader, loop)
	mountErrors := 0

	if cfg.Scripts.Enabled && !opts.noScripts {
		runtime := js.NewRuntime(loop)
		exec := js.NewScriptExecutor(runtime)
		exec.SetupDocument(page)
		bridge := js.InstallBridge(waitCtx, runtime, exec.DOMBinder(), mounter)
		for _, scriptErr := range exec.ExecuteScripts(page) {
			trace.Errorf("script: %v", scriptErr)
		}
		if _, err := bridge.DrainPending(); err != nil {
			trace.Errorf("pending stories: %v", err)
			mountErrors++
		}
	}

	for _, entry := range manifest.Stories {
		el := page.Document.QuerySelector(entry.Selector)
		_, err := mounter.Mount(waitCtx, story.Config{Elm: el, SpreadSheetPaths: entry.SpreadSheetPaths})
		if err != nil {
			trace.Errorf("story %q: %v", entry.Selector, err)
			mountErrors++
		}
	}

	if err := loop.Run(waitCtx); err != nil {
		trace.Errorf("waiting for stories: %v", err)
	}
	page.Document.RunAnimationFrame()

	if opts.tree {
		fmt.Fprintln(out, dom.Dump(page.Document.AsNode()))
	} else {
		fmt.Fprintln(out, page.Document.Serialize())
	}

	stories := mounter.Stories()
	failed := len(mounter.Failed())
	for _, s := range stories {
		if !s.Finished() {
			trace.Errorf("story %s did not finish", s.ID())
			failed++
		}
	}
	switch {
	case mountErrors > 0 && failed > 0:
		return fmt.Errorf("%d stories could not be mounted, %d of %d stories failed", mountErrors, failed, len(stories))
	case mountErrors > 0:
		return fmt.Errorf("%d stories could not be mounted", mountErrors)
	case failed > 0:
		return fmt.Errorf("%d of %d stories failed", failed, len(stories))
	}
	return nil
}

// newLoader builds the resource loader and resolves target to a URL. A
// target that is not a URL is a local file; its directory becomes the local
// root unless one is configured.
func newLoader(cfg config.Config, target string) (*network.Loader, string, error) {
	client, err := network.NewClient(
		network.WithTimeout(cfg.HTTP.Timeout),
		network.WithUserAgent(cfg.HTTP.UserAgent),
		network.WithMaxRedirects(cfg.HTTP.MaxRedirects),
	)
	if err != nil {
		return nil, "", err
	}

	pageURL := target
	localPath := cfg.Loader.LocalPath
	if !network.IsAbsoluteURL(target) {
		abs, err := filepath.Abs(target)
		if err != nil {
			return nil, "", err
		}
		if _, err := os.Stat(abs); err != nil {
			return nil, "", fmt.Errorf("page %s: %w", target, err)
		}
		pageURL = "file://" + filepath.ToSlash(abs)
		if localPath == "" {
			localPath = filepath.Dir(abs)
		}
	}

	var opts []network.LoaderOption
	if localPath != "" {
		opts = append(opts, network.WithLocalPath(localPath))
	}
	if cfg.HTTP.BaseURL != "" {
		opts = append(opts, network.WithBaseURL(cfg.HTTP.BaseURL))
	}
	if cfg.Cache.Size > 0 {
		opts = append(opts, network.WithCache(network.NewCache(cfg.Cache.Size)))
	}
	return network.NewLoader(client, opts...), pageURL, nil
}
