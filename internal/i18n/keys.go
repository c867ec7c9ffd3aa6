package i18n

// Key identifies a localized literal.
type Key string

// Results table.
const (
	ResultID       Key = "RESULT_ID"
	ResultName     Key = "RESULT_NAME"
	ResultTime     Key = "RESULT_TIME"
	ResultPassed   Key = "RESULT_PASSED"
	ResultOutcome  Key = "RESULT_OUTCOME"
	ResultTrue     Key = "RESULT_TRUE_OUT"
	ResultFalse    Key = "RESULT_FALSE_OUT"
	ResultExitCode Key = "RESULT_EXITCODE"
)

// Summary table.
const (
	TestTotal             Key = "TEST_TOTAL"
	TestPassed            Key = "TEST_PASSED"
	TestFailed            Key = "TEST_FAILED"
	TestMemCheckFailed    Key = "TEST_VALGRIND_FAILED"
	TestDiffFailed        Key = "TEST_DIFF_FAILED"
	TestCompilationFailed Key = "TEST_COMPILATION_FAILED"
	TestOtherFailed       Key = "TEST_OTHER_FAILED"
)

// Problem titles of failed units.
const (
	ProblemMemCheck        Key = "PROBLEM_VALGRIND"
	ProblemCompilation     Key = "PROBLEM_COMPILATION"
	ProblemDiffStdout      Key = "PROBLEM_DIFF_STDOUT"
	ProblemDiffStderr      Key = "PROBLEM_DIFF_STDERR"
	ProblemDiffUnspecified Key = "PROBLEM_DIFF_UNSPECIFIED"
	ProblemDiffTrouble     Key = "PROBLEM_DIFF_TROUBLE"
	ProblemTool            Key = "PROBLEM_TOOL"
)

// Run reports.
const (
	ProgressTitle Key = "PROGRESS_TITLE"
	WarningsTitle Key = "WARNINGS_TITLE"
	Regressions   Key = "HISTORY_REGRESSIONS"
	Fixes         Key = "HISTORY_FIXES"
	HistorySaved  Key = "HISTORY_LOG_SAVED"
)

// Settings listing.
const (
	SettingTestDir  Key = "TEST_FOLDER_PATH"
	SettingProgram  Key = "PROGRAM_PATH"
	SettingMemCheck Key = "VALGRIND_ACTIVITY"
	SettingStderr   Key = "STDERR_ACTIVITY"
	SettingLanguage Key = "LANGUAGE_OPTION"
	SettingMode     Key = "PROGRAM_MODE"
)

// NoTranslation is shown for a key no dictionary defines.
const NoTranslation = "NO TRANSLATION YET."

var english = map[Key]string{
	ResultID:       "ID",
	ResultName:     "NAME",
	ResultTime:     "TIME",
	ResultPassed:   "PASSED",
	ResultOutcome:  "PROBLEM / EXITCODE",
	ResultTrue:     "TRUE",
	ResultFalse:    "FALSE",
	ResultExitCode: "Program's returned exitcode",

	TestTotal:             "TOTAL",
	TestPassed:            "PASSED",
	TestFailed:            "FAILED",
	TestMemCheckFailed:    "VALGRIND FAILED",
	TestDiffFailed:        "DIFF FAILED",
	TestCompilationFailed: "COMPILATION FAILED",
	TestOtherFailed:       "OTHER FAIL",

	ProblemMemCheck:        "Valgrind ERROR",
	ProblemCompilation:     "Compilation ERROR",
	ProblemDiffStdout:      "Diff ERROR: Difference (stdout)",
	ProblemDiffStderr:      "Diff ERROR: Difference (stderr)",
	ProblemDiffUnspecified: "Diff ERROR: Difference (not specified)",
	ProblemDiffTrouble:     "Diff ERROR: Trouble (%s)",
	ProblemTool:            "SYSTEM: %s failed",

	ProgressTitle: "Running tests",
	WarningsTitle: "Compilation warnings",
	Regressions:   "Failing since last run",
	Fixes:         "Passing since last run",
	HistorySaved:  "Results saved to %s",

	SettingTestDir:  "Test directory",
	SettingProgram:  "Program path",
	SettingMemCheck: "Valgrind activity",
	SettingStderr:   "Stderr activity",
	SettingLanguage: "Language",
	SettingMode:     "Compilation mode",
}

var polish = map[Key]string{
	ResultID:       "ID",
	ResultName:     "NAZWA",
	ResultTime:     "CZAS",
	ResultPassed:   "ZALICZONY",
	ResultOutcome:  "PROBLEM / KOD WYJŚCIA",
	ResultTrue:     "TAK",
	ResultFalse:    "NIE",
	ResultExitCode: "Kod wyjścia programu",

	TestTotal:             "RAZEM",
	TestPassed:            "ZALICZONE",
	TestFailed:            "NIEZALICZONE",
	TestMemCheckFailed:    "BŁĘDY VALGRINDA",
	TestDiffFailed:        "BŁĘDY DIFFA",
	TestCompilationFailed: "BŁĘDY KOMPILACJI",
	TestOtherFailed:       "INNE BŁĘDY",

	ProblemMemCheck:        "BŁĄD Valgrinda",
	ProblemCompilation:     "BŁĄD kompilacji",
	ProblemDiffStdout:      "BŁĄD diffa: różnica (stdout)",
	ProblemDiffStderr:      "BŁĄD diffa: różnica (stderr)",
	ProblemDiffUnspecified: "BŁĄD diffa: różnica (nieokreślona)",
	ProblemDiffTrouble:     "BŁĄD diffa: problem (%s)",
	ProblemTool:            "SYSTEM: %s zawiódł",

	ProgressTitle: "Uruchamianie testów",
	WarningsTitle: "Ostrzeżenia kompilacji",
	Regressions:   "Nie przechodzą od ostatniego uruchomienia",
	Fixes:         "Przechodzą od ostatniego uruchomienia",
	HistorySaved:  "Wyniki zapisano w %s",

	SettingTestDir:  "Katalog testów",
	SettingProgram:  "Ścieżka programu",
	SettingMemCheck: "Użycie Valgrinda",
	SettingStderr:   "Testowanie stderr",
	SettingLanguage: "Język",
	SettingMode:     "Tryb kompilacji",
}
