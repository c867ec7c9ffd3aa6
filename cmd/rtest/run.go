package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"rtest/internal/corpus"
	"rtest/internal/harness"
	"rtest/internal/history"
	"rtest/internal/i18n"
	"rtest/internal/result"
	"rtest/internal/settings"
	"rtest/internal/trace"
	"rtest/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the test corpus",
	Long: `Run every unit of the test directory against the configured program and
print the results table and summary. Flags override rtest.toml for this run
only. The plain table is also written to history.log.`,
	Args: cobra.NoArgs,
	RunE: runCorpus,
}

// overrideFlags maps run flags to settings keys.
var overrideFlags = []struct {
	flag string
	key  string
}{
	{"tests", "tests.dir"},
	{"stderr", "tests.stderr"},
	{"program", "program.path"},
	{"library", "program.library"},
	{"compiled", "program.compiled"},
	{"memcheck", "memcheck.enabled"},
	{"jobs", "run.jobs"},
	{"timeout", "run.timeout"},
	{"workdir", "run.workdir"},
	{"language", "ui.language"},
	{"fold-width", "ui.fold_width"},
}

func init() {
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("tests", "", "test directory")
	cmd.Flags().Bool("stderr", false, "compare standard error with .err files")
	cmd.Flags().String("program", "", "program under test (library in compiled mode)")
	cmd.Flags().String("library", "", "library linked with every unit in compiled mode")
	cmd.Flags().Bool("compiled", false, "compile every .c unit before running it")
	cmd.Flags().Bool("memcheck", true, "run under the memory checker")
	cmd.Flags().Int("jobs", 0, "units run at once (0 = number of CPUs)")
	cmd.Flags().String("timeout", "", "kill a unit's program after this long (e.g. 5s)")
	cmd.Flags().String("workdir", "", "directory for temporary files")
	cmd.Flags().String("language", "", "output language ("+strings.Join(i18n.Supported(), "|")+")")
	cmd.Flags().Int("fold-width", settings.DefaultFoldWidth, "fold diagnostics at this many columns (0 = never)")

	cmd.Flags().String("ui", "auto", "progress UI mode (auto|on|off, default from $"+uiModeEnv+")")
	cmd.Flags().Bool("timings", false, "print per-step timings of every unit")
	cmd.Flags().Bool("no-log", false, "do not write history.log")
	cmd.Flags().Bool("no-history", false, "do not compare with or record the previous run")
	cmd.Flags().Bool("no-fail-exit", false, "exit 0 even when tests fail")
}

// applyOverrides copies every flag the user set onto s.
func applyOverrides(cmd *cobra.Command, s *settings.Settings) error {
	for _, o := range overrideFlags {
		f := cmd.Flags().Lookup(o.flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := s.Set(o.key, f.Value.String()); err != nil {
			return fmt.Errorf("--%s: %w", o.flag, err)
		}
	}
	return nil
}

func runCorpus(cmd *cobra.Command, _ []string) (err error) {
	defer traceCleanup()
	defer func() {
		if err != nil && err != errUnitsFailed {
			dumpTrace(cmd)
		}
	}()

	loaded, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	s := loaded.Settings
	if err := applyOverrides(cmd, &s); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid settings (see `rtest settings`):\n%w", err)
	}
	cfg, err := s.HarnessConfig()
	if err != nil {
		return err
	}
	if missing := cfg.Tools.Missing(cfg.MemCheck, cfg.Compiled); len(missing) > 0 {
		return fmt.Errorf("required tools not found on PATH: %s", strings.Join(missing, ", "))
	}

	dict, err := i18n.Load(s.UI.Language, i18n.OverrideDir)
	if err != nil {
		return err
	}

	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := resolveUIMode(uiFlag, cmd.Flags().Changed("ui"))
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	cleanupProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanupProf()

	units, err := corpus.Load(cfg.CorpusDir, cfg.Mode())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var outcomes []result.Outcome
	if !quiet && shouldUseTUI(mode, os.Stdout) {
		outcomes, err = runCorpusWithUI(ctx, dict.T(i18n.ProgressTitle), cfg, units)
	} else {
		if !quiet {
			cfg.Progress = &lineSink{out: cmd.ErrOrStderr()}
		}
		outcomes, err = harness.Execute(ctx, cfg, units)
	}
	if err != nil && outcomes == nil {
		return err
	}
	runErr := err

	out := cmd.OutOrStdout()
	report := ui.NewReport(dict, s.UI.FoldWidth, out)
	printResults(out, report, outcomes)

	if flagBool(cmd, "timings") {
		printTimings(out, outcomes)
	}
	if !flagBool(cmd, "no-log") {
		if err := ui.WriteHistoryLog(ui.HistoryLogName, dict, s.UI.FoldWidth, outcomes); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		} else if !quiet {
			fmt.Fprintln(out, dict.T(i18n.HistorySaved, ui.HistoryLogName))
		}
	}
	if runErr == nil && !flagBool(cmd, "no-history") {
		recordHistory(cmd, out, report, s, outcomes)
	}

	if runErr != nil {
		return runErr
	}
	if !result.Summarize(outcomes).AllPassed() && !flagBool(cmd, "no-fail-exit") {
		return errUnitsFailed
	}
	return nil
}

func flagBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	return err == nil && v
}

func printResults(out io.Writer, report *ui.Report, outcomes []result.Outcome) {
	fmt.Fprintln(out, report.Results(outcomes))
	if warnings := report.Warnings(outcomes); warnings != "" {
		fmt.Fprintln(out, warnings)
	}
	fmt.Fprintln(out, report.Summary(result.Summarize(outcomes)))
}

func printTimings(out io.Writer, outcomes []result.Outcome) {
	for i := range outcomes {
		o := &outcomes[i]
		fmt.Fprintf(out, "%s\n%s", o.Name(), o.Steps.Summary())
	}
}

// recordHistory reports verdict changes since the previous run of this
// corpus and stores the current one. History problems never fail a run.
func recordHistory(cmd *cobra.Command, out io.Writer, report *ui.Report, s settings.Settings, outcomes []result.Outcome) {
	tracer := trace.FromContext(cmd.Context())
	store, err := history.Open("rtest")
	if err != nil {
		trace.Point(tracer, trace.ScopeRun, "history", err.Error(), 0)
		return
	}
	mode := corpus.ModeFeeder
	if s.Program.Compiled {
		mode = corpus.ModeCompiled
	}
	key := history.KeyFor(s.Tests.Dir, mode, s.Subject())

	snap, err := history.NewSnapshot(s.Tests.Dir, outcomes)
	if err != nil {
		trace.Point(tracer, trace.ScopeRun, "history", err.Error(), 0)
		return
	}
	prev, ok, err := store.Get(key)
	if err != nil {
		trace.Point(tracer, trace.ScopeRun, "history", err.Error(), 0)
	}
	if ok {
		if changes := history.Compare(prev, snap); !changes.Empty() {
			fmt.Fprint(out, report.Changes(changes))
		}
	}
	if err := store.Put(key, snap); err != nil {
		trace.Point(tracer, trace.ScopeRun, "history", err.Error(), 0)
	}
}
