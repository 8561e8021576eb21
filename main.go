package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"

	"shellmenu/internal/analysis"
	"shellmenu/internal/catalog"
	"shellmenu/internal/config"
	"shellmenu/internal/dict"
	"shellmenu/internal/logging"
	"shellmenu/internal/menu"
	"shellmenu/internal/model"
	"shellmenu/internal/report"
	"shellmenu/internal/selection"
	"shellmenu/internal/store"
	"shellmenu/internal/tui"
	"shellmenu/internal/web"
)

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      "shellmenu",
		Repository: "shellmenu",
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Println("👉 Download it from https://github.com/shellmenu/shellmenu/releases")
	} else if pflag.Lookup("update").Changed {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

// app bundles the collaborators every mode shares.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	dicts  *dict.Source
	loader *menu.Loader
	sel    *selection.State
	engine *analysis.Engine
	scene  model.Scene
	// single limits report and JSON output to scene.
	single bool
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: shellmenu [options]\n\n")
		fmt.Fprintf(os.Stderr, "shellmenu lists and edits the Windows Explorer context menu.\n")
		fmt.Fprintf(os.Stderr, "Each scene (files, folders, drives, extensions...) shows the commands and\n")
		fmt.Fprintf(os.Stderr, "shell extension handlers registered for it, and lets you toggle or remove them.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  shellmenu                        # Start TUI mode\n")
		fmt.Fprintf(os.Stderr, "  shellmenu --report               # Print every scene to stdout\n")
		fmt.Fprintf(os.Stderr, "  shellmenu -r --ext .txt -o r.txt # Save the .txt scene report to file\n")
		fmt.Fprintf(os.Stderr, "  shellmenu --analyze notes.lnk    # Show which scenes apply to a file\n")
		fmt.Fprintf(os.Stderr, "  shellmenu --store menu.yaml -w   # Browse a fixture in the web UI\n")
	}

	sceneFlag := pflag.String("scene", "", "Scene to show or report (e.g. File, Folder, DragDrop)")
	extFlag := pflag.String("ext", "", "Select a file extension (CustomExtension scene)")
	perceivedFlag := pflag.String("perceived", "", "Select a perceived type (PerceivedType scene)")
	dirTypeFlag := pflag.String("dirtype", "", "Select a directory type (DirectoryType scene)")
	regPathFlag := pflag.String("reg-path", "", "Select a registry path (CustomRegPath scene)")
	analyzeFlag := pflag.String("analyze", "", "Analyze a file or folder (MenuAnalysis scene)")
	jsonFlag := pflag.BoolP("json", "j", false, "Output scene data as JSON")
	reportFlag := pflag.BoolP("report", "r", false, "Generate a scene report (CLI mode)")
	outputFlag := pflag.StringP("output", "o", "", "Save report to the specified file (combined with --report)")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Include registry paths and commands in the report")
	webFlag := pflag.BoolP("web", "w", false, "Start Web Mode on http://localhost:<web.port>")
	storeFlag := pflag.String("store", "", "Read a YAML registry fixture instead of the system registry")
	osVersionFlag := pflag.String("os-version", "", "Windows version to evaluate scenes for (e.g. 6.1, 10.0)")
	configFlag := pflag.String("config", "", "Path to config.yaml")
	debugFlag := pflag.Bool("debug", false, "Enable debug logging")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("shellmenu version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	cfg, err := config.Load(*configFlag, "")
	if err != nil {
		fatal(err)
	}
	if *storeFlag != "" {
		cfg.Store.Fixture = *storeFlag
	}
	if *osVersionFlag != "" {
		cfg.Platform.Version = *osVersionFlag
	}
	if *debugFlag {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	interactive := !*reportFlag && !*jsonFlag && !*webFlag
	logOut, closeLog := logWriter(interactive)
	defer closeLog()

	a, err := setup(cfg, logOut)
	if err != nil {
		fatal(err)
	}

	if *sceneFlag != "" {
		if a.scene, err = model.ParseScene(*sceneFlag); err != nil {
			fatal(err)
		}
		a.single = true
	}
	selections := []struct {
		field selection.Field
		value string
	}{
		{selection.FieldExtension, *extFlag},
		{selection.FieldPerceivedType, *perceivedFlag},
		{selection.FieldDirectoryType, *dirTypeFlag},
		{selection.FieldCustomPath, *regPathFlag},
		{selection.FieldAnalysisTarget, model.ExpandTilde(*analyzeFlag)},
	}
	for _, s := range selections {
		if s.value == "" {
			continue
		}
		if _, err := a.sel.Set(s.field, s.value); err != nil {
			fatal(err)
		}
		if *sceneFlag == "" {
			a.scene, a.single = s.field.Scene(), true
		}
	}

	if *webFlag {
		runWebMode(a)
		return
	}

	if *reportFlag {
		runReportMode(a, *outputFlag, *verboseFlag)
		return
	}

	if *jsonFlag {
		runJsonMode(a)
		return
	}

	// Default: TUI
	runTuiMode(a)
}

func setup(cfg *config.Config, logOut io.Writer) (*app, error) {
	logger, err := logging.New(logOut, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	caps, err := cfg.Caps()
	if err != nil {
		return nil, err
	}

	var s store.Store
	if cfg.Store.Fixture != "" {
		s, err = store.LoadFixtureFile(cfg.Store.Fixture)
	} else {
		s, err = store.OpenSystem(logger)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("store opened", "fixture", cfg.Store.Fixture, "windows", caps.String())

	c := catalog.New(s, caps, catalog.WithLogger(logger))
	dicts := dict.NewSource(afero.NewOsFs(), cfg.DictionaryFiles(), cfg.Dictionaries.CacheTTL, logger)
	engine := analysis.New(afero.NewOsFs(), c)
	engine.Logger = logger
	ld := menu.NewLoader(c,
		menu.WithLogger(logger),
		menu.WithDictionaries(dicts),
		menu.WithAnalyzer(engine),
		menu.WithSystemStoreNames(cfg.CommandStore.Excluded),
	)
	return &app{
		cfg:    cfg,
		logger: logger,
		dicts:  dicts,
		loader: ld,
		sel:    selection.New(),
		engine: engine,
		scene:  model.SceneFile,
	}, nil
}

// watchDictionaries refreshes dictionaries on edit for the long-running
// modes. Failure only costs live reloads.
func (a *app) watchDictionaries() func() {
	w, err := dict.Watch(a.dicts)
	if err != nil {
		a.logger.Warn("dictionary watch disabled", "err", err)
		return func() {}
	}
	return func() { _ = w.Stop() }
}

// logWriter sends logs to stderr, or to a file in the config directory
// while the TUI owns the terminal.
func logWriter(tuiMode bool) (io.Writer, func()) {
	if !tuiMode {
		return os.Stderr, func() {}
	}
	dir, err := config.ConfigDir()
	if err != nil || os.MkdirAll(dir, 0o755) != nil {
		dir = os.TempDir()
	}
	f, err := os.OpenFile(filepath.Join(dir, "shellmenu.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { _ = f.Close() }
}

func (a *app) scenes() []model.Scene {
	if a.single {
		return []model.Scene{a.scene}
	}
	return nil
}

func runReportMode(a *app, outputFile string, verbose bool) {
	res := report.Collect(a.loader, a.sel, a.scenes())
	text := report.Generate(res, verbose)

	if outputFile != "" {
		err := os.WriteFile(outputFile, []byte(text), 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report to %s: %v\n", outputFile, err)
			os.Exit(1)
		}
		fmt.Printf("Report saved to %s\n", outputFile)
	} else {
		fmt.Println(text)
	}
}

func runJsonMode(a *app) {
	res := report.Collect(a.loader, a.sel, a.scenes())

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		fatal(err)
	}
}

func runWebMode(a *app) {
	defer a.watchDictionaries()()
	srv := web.NewServer(a.loader, a.sel, a.engine, a.logger)
	if err := srv.ListenAndServe(a.cfg.Web.Port); err != nil {
		fatal(err)
	}
}

func runTuiMode(a *app) {
	defer a.watchDictionaries()()
	m := tui.InitialModel(a.loader, a.sel, a.engine, a.logger)
	m.StartAt(a.scene)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
