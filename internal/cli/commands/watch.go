package commands

import (
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/highergov/schemactl/pkg/schema"
	"github.com/spf13/cobra"
)

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Format string // Output format: table, json, markdown
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}
	cmd := &cobra.Command{
		Use:   "watch [manifest]",
		Short: "Re-validate the manifest on every change",
		Long: `Watch the manifest file and re-run validation each time it is written.
Useful while editing a manifest by hand. Stops on Ctrl+C.`,
		Example: `  # Watch the configured manifest
  schemactl watch

  # Watch a specific manifest with JSON output
  schemactl watch schemas/highergov.json --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, markdown")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, opts *WatchOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	w := cmd.OutOrStdout()
	format := resolveFormat(opts.Format, cfg.OutputFormat)

	path := manifestPath(cfg, args)
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve manifest path: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initial run before any change arrives.
	checkManifest(cmdCtx, w, absPath, format)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory rather than the file: editors replace files on
	// save, which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(absPath), err)
	}

	fmt.Fprintf(w, "Watching %s (Ctrl+C to stop)\n", path)

	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				fmt.Fprintf(w, "\nChange detected: %s\n", filepath.Base(event.Name))
				checkManifest(cmdCtx, w, absPath, format)
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmdCtx.Logger.Warn("watcher error", "error", err)
		}
	}
}

// checkManifest loads and validates one manifest revision. Errors are
// printed rather than returned so the watch loop keeps running.
func checkManifest(cmdCtx *CommandContext, w io.Writer, path string, format string) {
	g, _, err := loadGraph(cmdCtx.Cfg, []string{path})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	issues := g.Validate()
	if err := renderIssues(w, issues, format); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	if errs := schema.ErrorIssues(issues); len(errs) == 0 {
		fmt.Fprintln(w, "Manifest OK")
	}
}
