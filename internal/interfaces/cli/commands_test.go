package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"kilometers.ai/buildcfg/internal/application/services"
	"kilometers.ai/buildcfg/internal/core/domain/buildconfig"
	configdomain "kilometers.ai/buildcfg/internal/core/domain/config"
	"kilometers.ai/buildcfg/internal/core/testfixtures"
	descriptorinfra "kilometers.ai/buildcfg/internal/infrastructure/descriptor"
	"kilometers.ai/buildcfg/internal/infrastructure/flutter"
)

func newTestContainer(t *testing.T) *CLIContainer {
	t.Helper()
	snap := configdomain.DefaultSnapshot()
	settings, err := snap.Settings()
	require.NoError(t, err)

	return &CLIContainer{
		Loader:   services.NewBuildConfigLoader(descriptorinfra.NewDefaultRegistry(), flutter.NewStaticProvider(testfixtures.NoteVersions), zerolog.Nop()),
		Settings: settings,
		Snapshot: snap,
		Logger:   zerolog.Nop(),
	}
}

func runCommand(t *testing.T, container *CLIContainer, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(container)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestValidateCommand_ValidDescriptor(t *testing.T) {
	project := testfixtures.NewProject(t, "1.0.0+1")
	path := project.WriteDescriptor(t, "build.gradle.kts", testfixtures.NoteAppGradle)

	out, err := runCommand(t, newTestContainer(t), "validate", path)
	require.NoError(t, err)

	assert.Contains(t, out, "descriptor is valid")
	assert.Contains(t, out, "Application ID")
	assert.Contains(t, out, "com.example.note")
	assert.Contains(t, out, "27.0.12077973")
}

func TestValidateCommand_InvalidDescriptor(t *testing.T) {
	project := testfixtures.NewProject(t, "")
	path := project.WriteDescriptor(t, "app.json", `{"compileSdk": 34, "targetSdk": 34, "minSdk": 19,
 "applicationId": "com.example.note", "versionCode": 1, "versionName": "1.0",
 "signingConfigRef": "debug", "flutterSourceDir": "../.."}`)

	out, err := runCommand(t, newTestContainer(t), "validate", path)
	require.Error(t, err)

	assert.True(t, buildconfig.IsValidationError(err))
	assert.Contains(t, err.Error(), "is invalid")
	assert.Contains(t, out, "validation error")
	assert.Contains(t, out, "minSdk")
}

func TestValidateCommand_ReportsFailureOnce(t *testing.T) {
	project := testfixtures.NewProject(t, "")
	path := project.WriteDescriptor(t, "app.json", `{"compileSdk": 34, "targetSdk": 34, "minSdk": 19,
 "applicationId": "com.example.note", "versionCode": 1, "versionName": "1.0",
 "signingConfigRef": "debug", "flutterSourceDir": "../.."}`)

	out, err := runCommand(t, newTestContainer(t), "validate", path)
	require.Error(t, err)

	assert.Equal(t, path+" is invalid", err.Error())
	assert.Equal(t, 1, strings.Count(out, "must be at least 23"))
	assert.Empty(t, errorMessage(err), "details were already rendered")
	assert.True(t, buildconfig.IsValidationError(err))
}

func TestErrorMessage(t *testing.T) {
	plain := errors.New("unknown command")
	assert.Equal(t, "Error: unknown command", errorMessage(plain))

	reported := &reportedError{summary: "app.json is invalid", err: plain}
	assert.Empty(t, errorMessage(reported))
	assert.ErrorIs(t, reported, plain)
}

func TestValidateCommand_UnresolvedSigningConfig(t *testing.T) {
	project := testfixtures.NewProject(t, "")
	path := project.WriteDescriptor(t, "app.yaml", `compileSdk: 34
targetSdk: 34
minSdk: 23
applicationId: com.example.note
versionCode: 1
versionName: "1.0"
signingConfigRef: release
flutterSourceDir: ../..
`)

	out, err := runCommand(t, newTestContainer(t), "validate", path)
	require.Error(t, err)
	assert.True(t, buildconfig.IsNotFoundError(err))
	assert.Contains(t, out, "not found")
}

func TestValidateCommand_TooManyArgs(t *testing.T) {
	_, err := runCommand(t, newTestContainer(t), "validate", "a.kts", "b.kts")
	assert.Error(t, err)
}

func TestShowCommand_Formats(t *testing.T) {
	project := testfixtures.NewProject(t, "1.0.0+1")
	path := project.WriteDescriptor(t, "build.gradle.kts", testfixtures.NoteAppGradle)
	container := newTestContainer(t)

	t.Run("json_from_settings", func(t *testing.T) {
		out, err := runCommand(t, container, "show", path)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "com.example.note", got["applicationId"])
		assert.Equal(t, float64(34), got["targetSdk"])
	})

	t.Run("yaml_flag", func(t *testing.T) {
		out, err := runCommand(t, container, "show", "-o", "yaml", path)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &got))
		assert.Equal(t, "11", got["javaLanguageLevel"])
		assert.Equal(t, 23, got["minSdk"])
	})

	t.Run("toml_flag", func(t *testing.T) {
		out, err := runCommand(t, container, "show", "--output", "toml", path)
		require.NoError(t, err)
		assert.Contains(t, out, `applicationId = "com.example.note"`)
	})

	t.Run("unknown_format", func(t *testing.T) {
		_, err := runCommand(t, container, "show", "-o", "xml", path)
		assert.Error(t, err)
	})
}

func TestConfigCommands(t *testing.T) {
	container := newTestContainer(t)

	out, err := runCommand(t, container, "config", "show")
	require.NoError(t, err)
	for _, key := range configdomain.Keys {
		assert.Contains(t, out, key)
	}
	assert.Contains(t, out, "(default)")

	out, err = runCommand(t, container, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, "Settings file path: (none found)\n", out)

	container.ConfigPath = "/etc/buildcfg.toml"
	out, err = runCommand(t, container, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, "Settings file path: /etc/buildcfg.toml\n", out)
}

// recordingConfigurer captures overrides passed by the root command
type recordingConfigurer struct {
	calls      int
	configPath string
	overrides  map[string]interface{}
}

func (r *recordingConfigurer) Configure(ctx context.Context, configPath string, overrides map[string]interface{}) error {
	r.calls++
	r.configPath = configPath
	r.overrides = overrides
	return nil
}

func TestRootCommand_AppliesOnlyChangedFlags(t *testing.T) {
	t.Run("no_flags", func(t *testing.T) {
		rec := &recordingConfigurer{}
		container := newTestContainer(t)
		container.MainContainer = rec

		_, err := runCommand(t, container, "config", "path")
		require.NoError(t, err)
		assert.Zero(t, rec.calls)
	})

	t.Run("log_level_and_config", func(t *testing.T) {
		rec := &recordingConfigurer{}
		container := newTestContainer(t)
		container.MainContainer = rec

		_, err := runCommand(t, container, "--log-level", "warn", "--config", "ci.toml", "config", "path")
		require.NoError(t, err)
		assert.Equal(t, 1, rec.calls)
		assert.Equal(t, "ci.toml", rec.configPath)
		assert.Equal(t, map[string]interface{}{configdomain.KeyLogLevel: "warn"}, rec.overrides)
	})

	t.Run("debug", func(t *testing.T) {
		rec := &recordingConfigurer{}
		container := newTestContainer(t)
		container.MainContainer = rec

		_, err := runCommand(t, container, "--debug", "config", "path")
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{configdomain.KeyDebug: true}, rec.overrides)
	})
}

func TestInspectModel(t *testing.T) {
	cfg := testfixtures.NewFieldsBuilder().MustBuild(t)
	loads := 0
	load := func(ctx context.Context) (*buildconfig.BuildConfig, error) {
		loads++
		if loads > 1 {
			return nil, &buildconfig.NotFoundError{Kind: "descriptor", Name: "app.json"}
		}
		return cfg, nil
	}

	m := newInspectModel(context.Background(), "app.json", load)
	assert.Contains(t, m.View(), "Loading...")

	msg := m.Init()()
	require.IsType(t, configLoadedMsg{}, msg)

	model, _ := m.Update(msg)
	m = model.(inspectModel)
	assert.False(t, m.loading)
	assert.Len(t, m.rows, len(summaryRows(cfg)))
	assert.Contains(t, m.View(), "com.example.note")

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = model.(inspectModel)
	assert.Equal(t, 0, m.selectedRow, "cursor stops at the first row")

	for i := 0; i < 3; i++ {
		model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
		m = model.(inspectModel)
	}
	assert.Equal(t, 3, m.selectedRow)
	assert.Contains(t, m.View(), m.rows[3].Help)

	for i := 0; i < 20; i++ {
		model, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = model.(inspectModel)
	}
	assert.Equal(t, len(m.rows)-1, m.selectedRow, "cursor stops at the last row")

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = model.(inspectModel)
	require.NotNil(t, cmd)
	assert.True(t, m.loading)

	model, _ = m.Update(cmd())
	m = model.(inspectModel)
	require.Error(t, m.err)
	assert.Empty(t, m.rows)
	assert.Contains(t, m.View(), "not found")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestRenderFailure(t *testing.T) {
	out := renderFailure(errors.Join(
		buildconfig.NewValidationError("minSdk", "must be at least 23, got 19"),
	))
	assert.Contains(t, out, "validation error")
	assert.Contains(t, out, "must be at least 23, got 19")
}
