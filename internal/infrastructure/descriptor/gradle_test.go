package descriptor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kilometers.ai/buildcfg/internal/core/domain/buildconfig"
	"kilometers.ai/buildcfg/internal/core/domain/descriptor"
	"kilometers.ai/buildcfg/internal/core/testfixtures"
)

func decodeGradle(t *testing.T, src string) descriptor.Document {
	t.Helper()
	doc, err := NewGradleDecoder().Decode("android/app/build.gradle.kts", []byte(src))
	require.NoError(t, err)
	return doc
}

func TestGradleDecoder_NoteApp(t *testing.T) {
	doc := decodeGradle(t, testfixtures.NoteAppGradle)

	assert.Equal(t, descriptor.FormatGradle, doc.Format)
	assert.Equal(t, "android/app/build.gradle.kts", doc.Source)
	assert.Equal(t, []string{
		"com.android.application",
		"com.google.gms.google-services",
		"kotlin-android",
		"dev.flutter.flutter-gradle-plugin",
	}, doc.Plugins)
	assert.Equal(t, "com.example.note", doc.Namespace)
	assert.Equal(t, descriptor.IntRef(descriptor.RefCompileSdk), doc.CompileSdk)
	assert.Equal(t, descriptor.Str("27.0.12077973"), doc.NDKVersion)
	assert.Equal(t, "JavaVersion.VERSION_11", doc.SourceCompatibility)
	assert.Equal(t, "JavaVersion.VERSION_11", doc.TargetCompatibility)
	assert.Equal(t, "JavaVersion.VERSION_11.toString()", doc.JvmTarget)
	assert.Equal(t, "com.example.note", doc.ApplicationID)
	assert.Equal(t, descriptor.Int(23), doc.MinSdk)
	assert.Equal(t, descriptor.IntRef(descriptor.RefTargetSdk), doc.TargetSdk)
	assert.Equal(t, descriptor.IntRef(descriptor.RefVersionCode), doc.VersionCode)
	assert.Equal(t, descriptor.StrRef(descriptor.RefVersionName), doc.VersionName)
	assert.Equal(t, "debug", doc.SigningConfigRef)
	assert.Empty(t, doc.SigningConfigs)
	assert.Equal(t, "../..", doc.FlutterSource)
}

func TestGradleDecoder_LiteralsAndSigningConfigs(t *testing.T) {
	src := `import java.util.Properties

plugins {
    id("com.android.application")
    kotlin("android")
}

val keystoreProperties = Properties()

android {
    namespace = "com.example.note.app"
    compileSdk = 35

    signingConfigs {
        create("release") {
            storeFile = file(keystoreProperties["storeFile"] as String)
        }
        register("upload")
    }

    defaultConfig {
        applicationId = "com.example.note"
        minSdk = 24
        targetSdk = 34
        versionCode = 1_000
        versionName = "2.1.0"
    }

    buildTypes {
        debug {
            isDebuggable = true
        }
        getByName("release") {
            isMinifyEnabled = false
            signingConfig = signingConfigs.getByName("release")
        }
    }
}

flutter { source = "../.." }
`
	doc := decodeGradle(t, src)

	assert.Equal(t, []string{"com.android.application", "org.jetbrains.kotlin.android"}, doc.Plugins)
	assert.Equal(t, "com.example.note.app", doc.Namespace)
	assert.Equal(t, descriptor.Int(35), doc.CompileSdk)
	assert.Equal(t, descriptor.Int(24), doc.MinSdk)
	assert.Equal(t, descriptor.Int(34), doc.TargetSdk)
	assert.Equal(t, descriptor.Int(1000), doc.VersionCode)
	assert.Equal(t, descriptor.Str("2.1.0"), doc.VersionName)
	assert.Equal(t, []string{"release", "upload"}, doc.SigningConfigs)
	assert.Equal(t, "release", doc.SigningConfigRef)
	assert.Equal(t, "../..", doc.FlutterSource)
	assert.False(t, doc.NDKVersion.Set)
}

func TestGradleDecoder_LegacyForms(t *testing.T) {
	src := `android {
    compileSdkVersion(33)
    ndkVersion("25.1.8937393")

    compileOptions {
        sourceCompatibility = JavaVersion.VERSION_1_8
        targetCompatibility = JavaVersion.VERSION_1_8
    }

    defaultConfig {
        applicationId("com.example.legacy")
        minSdkVersion(23)
        targetSdkVersion(33)
        versionCode = flutter.versionCode
    }

    buildTypes {
        release {
            signingConfig = signingConfigs.release
        }
    }
}
`
	doc := decodeGradle(t, src)

	assert.Equal(t, descriptor.Int(33), doc.CompileSdk)
	assert.Equal(t, descriptor.Str("25.1.8937393"), doc.NDKVersion)
	assert.Equal(t, "JavaVersion.VERSION_1_8", doc.SourceCompatibility)
	assert.Equal(t, "com.example.legacy", doc.ApplicationID)
	assert.Equal(t, descriptor.Int(23), doc.MinSdk)
	assert.Equal(t, descriptor.Int(33), doc.TargetSdk)
	assert.Equal(t, descriptor.IntRef(descriptor.RefVersionCode), doc.VersionCode)
	assert.Equal(t, "release", doc.SigningConfigRef)
}

func TestGradleDecoder_IgnoresUnrelatedStatements(t *testing.T) {
	src := `/* top-level block comment
   spanning lines */
val flutterVersionCode = localProperties.getProperty("flutter.versionCode") ?: "1"

if (System.getenv("CI") == "true") {
    println("running on CI")
}

dependencies {
    implementation(platform("com.google.firebase:firebase-bom:33.1.0"))
}

android {
    lint { abortOnError = false }
    defaultConfig {
        applicationId = "com.example.note"
        testInstrumentationRunner = "androidx.test.runner.AndroidJUnitRunner"
    }
}
`
	doc := decodeGradle(t, src)
	assert.Equal(t, "com.example.note", doc.ApplicationID)
	assert.Empty(t, doc.Plugins)
}

func TestGradleDecoder_UnsignedRelease(t *testing.T) {
	doc := decodeGradle(t, `android {
    buildTypes {
        release {
            signingConfig = null
        }
    }
}
`)
	assert.Empty(t, doc.SigningConfigRef)
}

func TestGradleDecoder_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "unterminated_string",
			src:      "android {\n    namespace = \"com.example\n}\n",
			wantLine: 2,
			wantMsg:  "unterminated string literal",
		},
		{
			name:     "missing_closing_brace",
			src:      "android {\n    namespace = \"com.example.note\"\n",
			wantLine: 3,
			wantMsg:  "missing '}'",
		},
		{
			name:     "stray_closing_brace",
			src:      "plugins {\n}\n}\n",
			wantLine: 3,
			wantMsg:  "unexpected '}'",
		},
		{
			name:     "unclosed_call",
			src:      "plugins {\n    id(\"com.android.application\"\n}\n",
			wantLine: 3,
			wantMsg:  "unexpected '}' inside argument list",
		},
		{
			name:     "unterminated_block_comment",
			src:      "android {\n/* never closed\n}\n",
			wantLine: 2,
			wantMsg:  "unterminated block comment",
		},
		{
			name:     "non_literal_namespace",
			src:      "android {\n    namespace = appNamespace\n}\n",
			wantLine: 2,
			wantMsg:  "namespace must be a string literal",
		},
		{
			name:     "non_integer_sdk",
			src:      "android {\n    defaultConfig {\n        minSdk = \"23\"\n    }\n}\n",
			wantLine: 3,
			wantMsg:  "minSdk must be an integer",
		},
		{
			name:     "plugin_id_variable",
			src:      "plugins {\n    id(pluginId)\n}\n",
			wantLine: 2,
			wantMsg:  "id(...) expects a single string argument",
		},
		{
			name:     "unsupported_signing_expression",
			src:      "android {\n    buildTypes {\n        release {\n            signingConfig = pickSigning()\n        }\n    }\n}\n",
			wantLine: 4,
			wantMsg:  "unsupported signingConfig expression",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGradleDecoder().Decode("build.gradle.kts", []byte(tt.src))
			require.Error(t, err)

			var perr *buildconfig.ParseError
			require.True(t, errors.As(err, &perr), "expected ParseError, got %T: %v", err, err)
			assert.Equal(t, "build.gradle.kts", perr.Source)
			assert.Equal(t, tt.wantLine, perr.Line)
			assert.Contains(t, perr.Error(), tt.wantMsg)
		})
	}
}

func TestLexGradle_Strings(t *testing.T) {
	toks, err := lexGradle("x = \"a\\\"b\\n\"\ny = \"\"\"raw\n$text\"\"\"\nz = `quoted name`\n")
	require.NoError(t, err)

	var strs []string
	var idents []string
	for _, tok := range toks {
		switch tok.kind {
		case tokString:
			strs = append(strs, tok.text)
		case tokIdent:
			idents = append(idents, tok.text)
		}
	}
	assert.Equal(t, []string{"a\"b\n", "raw\n$text"}, strs)
	assert.Equal(t, []string{"x", "y", "z", "quoted name"}, idents)
	assert.Equal(t, tokEOF, toks[len(toks)-1].kind)
	assert.Equal(t, 5, toks[len(toks)-1].line)
}

func TestGradleDecoder_ToleratesKotlinLiterals(t *testing.T) {
	preludes := map[string]string{
		"float":         "val ratio = 1.5f",
		"double":        "val scale = 0.75",
		"exponent":      "val budget = 1e3",
		"signed_exp":    "val tiny = 2.5E-4",
		"hex":           "val mask = 0x10",
		"hex_long":      "val flags = 0xFF_FFL",
		"binary":        "val bits = 0b1010",
		"unsigned":      "val size = 42u",
		"unsigned_long": "val huge = 42uL",
		"long":          "val timeout = 30_000L",
		"unicode":       `val label = "caf\u00e9"`,
		"backspace":     `val ctl = "a\bb"`,
		"char_escape":   `val quote = '\''`,
	}

	for name, prelude := range preludes {
		t.Run(name, func(t *testing.T) {
			doc := decodeGradle(t, prelude+"\n"+testfixtures.NoteAppGradle)
			assert.Equal(t, "com.example.note", doc.ApplicationID)
			assert.Equal(t, descriptor.Int(23), doc.MinSdk)
			assert.Equal(t, "debug", doc.SigningConfigRef)
			assert.Equal(t, "../..", doc.FlutterSource)
		})
	}
}

func TestLexGradle_Numbers(t *testing.T) {
	tests := []struct {
		src      string
		wantKind tokenKind
		wantText string
	}{
		{src: "34", wantKind: tokInt, wantText: "34"},
		{src: "1_000", wantKind: tokInt, wantText: "1000"},
		{src: "30L", wantKind: tokInt, wantText: "30"},
		{src: "1.5f", wantKind: tokOther, wantText: "1.5f"},
		{src: "1e3", wantKind: tokOther, wantText: "1e3"},
		{src: "0x1F", wantKind: tokOther, wantText: "0x1F"},
		{src: "0b11", wantKind: tokOther, wantText: "0b11"},
		{src: "7U", wantKind: tokOther, wantText: "7U"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			toks, err := lexGradle(tt.src)
			require.NoError(t, err)
			require.Len(t, toks, 2)
			assert.Equal(t, tt.wantKind, toks[0].kind)
			assert.Equal(t, tt.wantText, toks[0].text)
		})
	}

	t.Run("member_call_on_int", func(t *testing.T) {
		toks, err := lexGradle("1.toString()")
		require.NoError(t, err)
		assert.Equal(t, tokInt, toks[0].kind)
		assert.Equal(t, tokDot, toks[1].kind)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := lexGradle("12abc")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed number")
	})
}

func TestLexGradle_UnicodeEscapes(t *testing.T) {
	toks, err := lexGradle(`x = "\u0041\u00E9"`)
	require.NoError(t, err)
	assert.Equal(t, tokString, toks[2].kind)
	assert.Equal(t, "Aé", toks[2].text)

	_, err = lexGradle(`x = "\u00g1"`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid unicode escape sequence")
}
