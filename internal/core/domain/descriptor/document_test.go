package descriptor

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntValue(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    IntValue
		wantErr bool
	}{
		{name: "literal", input: "34", want: Int(34)},
		{name: "padded_literal", input: " 23 ", want: Int(23)},
		{name: "negative_literal", input: "-1", want: Int(-1)},
		{name: "reference", input: "flutter.compileSdkVersion", want: IntRef(RefCompileSdk)},
		{name: "unknown_reference_kept", input: "flutter.somethingElse", want: IntRef("flutter.somethingElse")},
		{name: "bare_prefix", input: "flutter.", wantErr: true},
		{name: "word", input: "thirty", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIntValue(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, got.Set)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntValue_String(t *testing.T) {
	assert.Equal(t, "<unset>", IntValue{}.String())
	assert.Equal(t, "34", Int(34).String())
	assert.Equal(t, RefMinSdk, IntRef(RefMinSdk).String())

	assert.True(t, IntRef(RefMinSdk).IsRef())
	assert.False(t, Int(0).IsRef())
	assert.True(t, Int(0).Set)
}

func TestParseStringValue(t *testing.T) {
	assert.Equal(t, StrRef(RefVersionName), ParseStringValue("flutter.versionName"))
	assert.Equal(t, Str("1.0.0"), ParseStringValue("1.0.0"))
	assert.Equal(t, Str("flutter."), ParseStringValue("flutter."))
	assert.False(t, Str("x").IsRef())
}

func TestDocument_BaseDir(t *testing.T) {
	assert.Equal(t, ".", Document{}.BaseDir())
	assert.Equal(t, filepath.Join("android", "app"), Document{Source: filepath.Join("android", "app", "build.gradle.kts")}.BaseDir())
}

func TestDocument_References(t *testing.T) {
	doc := Document{
		CompileSdk:  IntRef(RefCompileSdk),
		TargetSdk:   IntRef(RefTargetSdk),
		MinSdk:      Int(23),
		VersionCode: IntRef(RefVersionCode),
		VersionName: StrRef(RefVersionName),
		NDKVersion:  Str("27.0.12077973"),
	}

	assert.Equal(t, []string{RefCompileSdk, RefTargetSdk, RefVersionCode, RefVersionName}, doc.References())
	assert.Nil(t, Document{}.References())
}
