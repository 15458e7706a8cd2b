package flutter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kilometers.ai/buildcfg/internal/core/domain/buildconfig"
	"kilometers.ai/buildcfg/internal/core/ports"
)

func writeProject(t *testing.T, pubspec string, localProperties string) string {
	t.Helper()
	dir := t.TempDir()
	if pubspec != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, PubspecFile), []byte(pubspec), 0o644))
	}
	if localProperties != "" {
		path := filepath.Join(dir, filepath.FromSlash(LocalPropertiesFile))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(localProperties), 0o644))
	}
	return dir
}

func TestProjectProvider_Versions(t *testing.T) {
	tests := []struct {
		name            string
		pubspec         string
		localProperties string
		wantCode        int
		wantName        string
	}{
		{
			name:     "pubspec_with_build_number",
			pubspec:  "name: note\nversion: 1.2.3+7\n",
			wantCode: 7,
			wantName: "1.2.3",
		},
		{
			name:     "pubspec_without_build_number",
			pubspec:  "name: note\nversion: 2.0.0\n",
			wantCode: DefaultVersions.VersionCode,
			wantName: "2.0.0",
		},
		{
			name:     "pubspec_without_version",
			pubspec:  "name: note\n",
			wantCode: DefaultVersions.VersionCode,
			wantName: DefaultVersions.VersionName,
		},
		{
			name:            "local_properties_override",
			pubspec:         "name: note\nversion: 1.2.3+7\n",
			localProperties: "sdk.dir=/opt/android\nflutter.sdk=/opt/flutter\nflutter.versionName=1.2.4\nflutter.versionCode=9\n",
			wantCode:        9,
			wantName:        "1.2.4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeProject(t, tt.pubspec, tt.localProperties)

			v, err := NewProjectProvider(DefaultVersions).Versions(context.Background(), dir)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, v.VersionCode)
			assert.Equal(t, tt.wantName, v.VersionName)
			assert.Equal(t, DefaultVersions.CompileSdk, v.CompileSdk)
			assert.Equal(t, DefaultVersions.TargetSdk, v.TargetSdk)
			assert.Equal(t, DefaultVersions.MinSdk, v.MinSdk)
			assert.Equal(t, DefaultVersions.NDKVersion, v.NDKVersion)
		})
	}
}

func TestProjectProvider_Errors(t *testing.T) {
	ctx := context.Background()
	provider := NewProjectProvider(DefaultVersions)

	t.Run("missing_pubspec", func(t *testing.T) {
		_, err := provider.Versions(ctx, t.TempDir())
		require.Error(t, err)
		assert.True(t, buildconfig.IsNotFoundError(err))
	})

	t.Run("invalid_pubspec", func(t *testing.T) {
		_, err := provider.Versions(ctx, writeProject(t, "name: [note\n", ""))
		require.Error(t, err)
		assert.True(t, buildconfig.IsParseError(err))
	})

	t.Run("invalid_build_number", func(t *testing.T) {
		_, err := provider.Versions(ctx, writeProject(t, "version: 1.0.0+beta\n", ""))
		require.Error(t, err)
		assert.True(t, buildconfig.IsParseError(err))
	})

	t.Run("invalid_local_version_code", func(t *testing.T) {
		_, err := provider.Versions(ctx, writeProject(t, "version: 1.0.0+1\n", "flutter.versionCode=one\n"))
		require.Error(t, err)
		assert.True(t, buildconfig.IsParseError(err))
	})

	t.Run("cancelled", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := provider.Versions(cancelled, writeProject(t, "version: 1.0.0\n", ""))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSplitPubspecVersion(t *testing.T) {
	tests := []struct {
		input    string
		wantName string
		wantCode int
		wantErr  bool
	}{
		{input: "1.2.3+4", wantName: "1.2.3", wantCode: 4},
		{input: "1.0.0", wantName: "1.0.0"},
		{input: " 0.1.0+12 ", wantName: "0.1.0", wantCode: 12},
		{input: "1.0.0+", wantErr: true},
		{input: "1.0.0+0", wantErr: true},
		{input: "+3", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			name, code, err := SplitPubspecVersion(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestStaticProvider(t *testing.T) {
	versions := ports.FlutterVersions{CompileSdk: 34, TargetSdk: 34, MinSdk: 23, VersionCode: 3, VersionName: "1.0.2"}
	p := NewStaticProvider(versions)

	got, err := p.Versions(context.Background(), "/anywhere")
	require.NoError(t, err)
	assert.Equal(t, versions, got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Versions(ctx, "/anywhere")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseProperties(t *testing.T) {
	props := ParseProperties([]byte(`# written by flutter
! legacy comment
sdk.dir=C\:\\Android\\sdk
flutter.versionName = 1.0.0
flutter.versionCode:3
flutter.buildMode

`))

	assert.Equal(t, map[string]string{
		"sdk.dir":             `C:\Android\sdk`,
		"flutter.versionName": "1.0.0",
		"flutter.versionCode": "3",
		"flutter.buildMode":   "",
	}, props)
}

func TestReadProperties_Missing(t *testing.T) {
	_, err := ReadProperties(filepath.Join(t.TempDir(), "local.properties"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
