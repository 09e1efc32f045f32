// Command janos builds a static site from a janos.config.json document: a
// virtual file store runs through a configured stage pipeline and is
// written to the configured output directory.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"

	"github.com/janos-ssg/janos/internal/config"
	"github.com/janos-ssg/janos/internal/pipeline"
	"github.com/janos-ssg/janos/internal/pipelinectx"
	"github.com/janos-ssg/janos/internal/stageerrors"
)

var version = "dev"

// CLI is the root kong command: a shared config-path/verbose flag pair and
// one subcommand per lifecycle operation.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"janos.config.json"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init   InitCmd   `cmd:"" help:"Write a starter janos.config.json"`
	Build  BuildCmd  `cmd:"" help:"Run the pipeline once and write the output directory"`
	Serve  ServeCmd  `cmd:"" help:"Rebuild on source changes and serve nothing else (dev convenience)"`
	Deploy DeployCmd `cmd:"" help:"Build, then copy the output directory to a target path"`
}

// Global carries state subcommands share; populated in main after parsing.
type Global struct {
	Logger *slog.Logger
}

func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// BuildCmd implements "build": loads the config, loads any .env file
// alongside it (webmention endpoint credentials and similar secrets),
// and runs the pipeline once.
type BuildCmd struct {
	Mode string `help:"Override the config's mode (development|production)"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	doc, root2, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	if b.Mode != "" {
		doc.Mode = b.Mode
	}
	driver, err := buildDriver(doc, g.Logger, root2)
	if err != nil {
		return err
	}
	result, err := runBuild(context.Background(), driver, doc, root2)
	if err != nil {
		return err
	}
	fmt.Printf("build complete: %d files processed, %d files written, %d warnings (%s)\n",
		result.FilesProcessed, result.FilesOutput, len(result.Warnings), result.Duration)
	for _, w := range result.Warnings {
		fmt.Printf("  warning: %s\n", w.Error())
	}
	return nil
}

// InitCmd writes a minimal starter config, never clobbering an existing
// one unless --force is given.
type InitCmd struct {
	Force bool `help:"Overwrite an existing config file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	if _, err := os.Stat(root.Config); err == nil && !i.Force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", root.Config)
	}
	starter := config.Document{
		Site: config.SiteConfig{
			Title:   "My Site",
			BaseURL: "https://example.com",
		},
		Pipeline: []config.StageEntry{
			{Name: "markdown"},
			{Name: "publish"},
			{Name: "excerpts"},
			{Name: "tags"},
			{Name: "collections"},
			{Name: "permalinks"},
			{Name: "coordination"},
			{Name: "layouts"},
		},
	}
	data, err := json.MarshalIndent(starter, "", "  ")
	if err != nil {
		return fmt.Errorf("encode starter config: %w", err)
	}
	if err := os.WriteFile(root.Config, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", root.Config, err)
	}
	fmt.Printf("wrote %s\n", root.Config)
	return nil
}

// ServeCmd watches the source and layouts trees and reruns the pipeline
// on change (fsnotify + debounce), with no HTTP serving or live reload.
type ServeCmd struct {
	Debounce time.Duration `help:"Delay after a change before rebuilding" default:"300ms"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	doc, root2, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	doc.Mode = "development"

	watchDirs := []string{
		filepath.Join(root2, doc.Site.SourceDirOrDefault()),
		filepath.Join(root2, doc.Site.LayoutsDirOrDefault()),
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer watcher.Close()
	for _, dir := range watchDirs {
		if err := addDirsRecursive(watcher, dir); err != nil {
			slog.Warn("could not watch directory", "dir", dir, "error", err)
		}
	}

	rebuild := func() {
		driver, err := buildDriver(doc, g.Logger, root2)
		if err != nil {
			slog.Error("config rebuild failed", "error", err)
			return
		}
		if _, err := runBuild(context.Background(), driver, doc, root2); err != nil {
			slog.Error("rebuild failed", "error", err)
			return
		}
		slog.Info("rebuild complete")
	}
	rebuild()

	var mu sync.Mutex
	var timer *time.Timer
	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(s.Debounce, rebuild)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.Info("watching for changes", "dirs", watchDirs)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if shouldIgnoreEvent(ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = addDirsRecursive(watcher, ev.Name)
				}
			}
			trigger()
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", werr)
		}
	}
}

// DeployCmd builds, then copies the output directory to Target — a local
// deploy target (mounted share, rsync destination, ...).
type DeployCmd struct {
	Target string `arg:"" help:"Destination directory to copy the built site into"`
}

func (d *DeployCmd) Run(g *Global, root *CLI) error {
	doc, root2, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	driver, err := buildDriver(doc, g.Logger, root2)
	if err != nil {
		return err
	}
	if _, err := runBuild(context.Background(), driver, doc, root2); err != nil {
		return err
	}
	outputDir := filepath.Join(root2, doc.Site.OutputDirOrDefault())
	if err := copyDir(outputDir, d.Target); err != nil {
		return fmt.Errorf("copy output to target: %w", err)
	}
	fmt.Printf("deployed %s to %s\n", outputDir, d.Target)
	return nil
}

func main() {
	cli := &CLI{}
	parser := kong.Parse(cli,
		kong.Description("janos: a staged static site generator."),
		kong.Vars{"version": version},
	)

	logger := slog.Default()
	errorAdapter := stageerrors.NewCLIAdapter(cli.Verbose, logger)
	globals := &Global{Logger: logger}

	if err := parser.Run(globals, cli); err != nil {
		errorAdapter.HandleError(err)
	}
}

// loadConfig loads .env (if present) alongside configPath, then parses the
// config document. Returns the document and the config's directory, which
// the document's sourceDir and outputDir are resolved against. layoutsDir
// is handed to the layouts loader as written, so a relative layoutsDir
// resolves against the process working directory.
func loadConfig(configPath string) (*config.Document, string, error) {
	root := filepath.Dir(configPath)
	envPath := filepath.Join(root, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			slog.Warn("failed to load .env", "path", envPath, "error", err)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", configPath, err)
	}
	doc, err := config.Parse(data)
	if err != nil {
		return nil, "", err
	}
	return doc, root, nil
}

func buildDriver(doc *config.Document, logger *slog.Logger, root string) (*pipeline.Driver, error) {
	return config.Build(doc, config.BuildOptions{
		Log:      logger,
		CacheDir: filepath.Join(root, ".janos-cache"),
	})
}

func runBuild(ctx context.Context, driver *pipeline.Driver, doc *config.Document, root string) (*pipeline.Result, error) {
	return driver.Build(ctx, pipeline.BuildConfig{
		SiteTitle:   doc.Site.Title,
		SiteBaseURL: doc.Site.BaseURL,
		SourceDir:   filepath.Join(root, doc.Site.SourceDirOrDefault()),
		OutputDir:   filepath.Join(root, doc.Site.OutputDirOrDefault()),
		Mode:        doc.ModeOrDefault(),
	})
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if e := w.Add(path); e != nil {
				slog.Warn("watch add failed", "dir", path, "error", e)
			}
		}
		return nil
	})
}

func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") {
		return true
	}
	return false
}

func copyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, srcInfo.Mode()); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, info.Mode())
}
