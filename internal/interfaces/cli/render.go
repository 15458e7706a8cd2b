package cli

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"kilometers.ai/buildcfg/internal/core/domain/buildconfig"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(22)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// fieldRow is one displayed field of a BuildConfig
type fieldRow struct {
	Label string
	Value string
	Help  string
}

func summaryRows(cfg *buildconfig.BuildConfig) []fieldRow {
	orDefault := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	plugins := strings.Join(cfg.Plugins(), ", ")

	return []fieldRow{
		{"Plugins", orDefault(plugins, "(none)"), "Gradle plugins, applied in the listed order"},
		{"Namespace", cfg.Namespace(), "Package scope of generated R and BuildConfig classes"},
		{"Application ID", cfg.ApplicationID(), "Identifier the package is published under"},
		{"Compile SDK", strconv.Itoa(cfg.CompileSdk()), "API level the app is compiled against"},
		{"Target SDK", strconv.Itoa(cfg.TargetSdk()), "API level the app is tested against"},
		{"Min SDK", strconv.Itoa(cfg.MinSdk()), "Lowest API level the app installs on"},
		{"NDK version", orDefault(cfg.NDKVersion(), "(toolchain default)"), "Pinned Android NDK revision"},
		{"Java level", cfg.JavaLanguageLevel().String(), "sourceCompatibility and targetCompatibility"},
		{"Kotlin jvmTarget", cfg.KotlinJvmTarget().String(), "Mirrors the Java language level"},
		{"Version code", strconv.Itoa(cfg.VersionCode()), "Monotonic build number"},
		{"Version name", cfg.VersionName(), "User visible version"},
		{"Signing config", orDefault(cfg.SigningConfigRef(), "(unsigned)"), "Signing config used by the release build type"},
		{"Flutter source", cfg.FlutterSourceDir(), "Flutter project root, relative to the descriptor"},
	}
}

func renderSummary(title string, rows []fieldRow) string {
	lines := []string{titleStyle.Render(title), mutedStyle.Render(strings.Repeat("─", 40))}
	for _, r := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(r.Label), valueStyle.Render(r.Value)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderFailure(err error) string {
	return errStyle.Render("✗ "+buildconfig.Class(err)) + "\n" + err.Error()
}

// reportedError is returned by commands that already rendered the failure.
// Its message is a one-line summary; the cause stays reachable via errors.As.
type reportedError struct {
	summary string
	err     error
}

func (e *reportedError) Error() string { return e.summary }

func (e *reportedError) Unwrap() error { return e.err }

// errorMessage returns the line Execute prints for err, or "" when the
// command already showed the details.
func errorMessage(err error) string {
	var reported *reportedError
	if errors.As(err, &reported) {
		return ""
	}
	return "Error: " + err.Error()
}
