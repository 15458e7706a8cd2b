package descriptor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"kilometers.ai/buildcfg/internal/core/domain/buildconfig"
	"kilometers.ai/buildcfg/internal/core/domain/descriptor"
	"kilometers.ai/buildcfg/internal/core/ports"
)

// kotlinPluginPrefix expands the kotlin("x") plugin shorthand
const kotlinPluginPrefix = "org.jetbrains.kotlin."

// GradleDecoder reads Android app build scripts written in the Gradle Kotlin DSL
type GradleDecoder struct{}

func NewGradleDecoder() *GradleDecoder { return &GradleDecoder{} }

func (d *GradleDecoder) Format() descriptor.Format { return descriptor.FormatGradle }

// Decode extracts the descriptor fields from a build.gradle.kts script.
// Statements outside the recognised blocks are ignored.
func (d *GradleDecoder) Decode(source string, data []byte) (descriptor.Document, error) {
	root, err := parseGradle(string(data))
	if err != nil {
		var se *syntaxError
		if errors.As(err, &se) {
			return descriptor.Document{}, buildconfig.NewParseError(source, se.line, "%s", se.msg)
		}
		return descriptor.Document{}, &buildconfig.ParseError{Source: source, Msg: "cannot parse build script", Err: err}
	}

	m := &gradleMapper{source: source, doc: descriptor.Document{Source: source, Format: descriptor.FormatGradle}}
	if err := m.mapRoot(root); err != nil {
		return descriptor.Document{}, err
	}
	return m.doc, nil
}

type gradleMapper struct {
	source string
	doc    descriptor.Document
}

func (m *gradleMapper) errorf(line int, format string, args ...any) error {
	return buildconfig.NewParseError(m.source, line, format, args...)
}

func (m *gradleMapper) mapRoot(root stmt) error {
	for _, s := range root.body {
		if !s.block {
			continue
		}
		var err error
		switch s.head {
		case "plugins":
			err = m.mapPlugins(s)
		case "android":
			err = m.mapAndroid(s)
		case "flutter":
			err = m.mapFlutter(s)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *gradleMapper) mapPlugins(block stmt) error {
	for _, s := range block.body {
		if !s.call {
			continue
		}
		var prefix string
		switch s.head {
		case "id":
		case "kotlin":
			prefix = kotlinPluginPrefix
		default:
			continue
		}
		if len(s.args) != 1 || s.args[0].kind != exprString {
			return m.errorf(s.line, "%s(...) expects a single string argument", s.head)
		}
		m.doc.Plugins = append(m.doc.Plugins, prefix+s.args[0].text)
	}
	return nil
}

func (m *gradleMapper) mapAndroid(block stmt) error {
	for _, s := range block.body {
		var err error
		switch {
		case s.assign:
			err = m.mapAndroidAssign(s)
		case s.call && (s.head == "compileSdkVersion" || s.head == "ndkVersion" || s.head == "namespace"):
			if len(s.args) != 1 {
				return m.errorf(s.line, "%s(...) expects one argument", s.head)
			}
			err = m.mapAndroidAssign(stmt{line: s.line, head: s.head, assign: true, value: s.args[0]})
		case s.block:
			switch s.head {
			case "compileOptions":
				err = m.mapCompileOptions(s)
			case "kotlinOptions":
				err = m.mapKotlinOptions(s)
			case "defaultConfig":
				err = m.mapDefaultConfig(s)
			case "buildTypes":
				err = m.mapBuildTypes(s)
			case "signingConfigs":
				err = m.mapSigningConfigs(s)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *gradleMapper) mapAndroidAssign(s stmt) error {
	var err error
	switch s.head {
	case "namespace":
		m.doc.Namespace, err = m.literalString(s)
	case "compileSdk", "compileSdkVersion":
		m.doc.CompileSdk, err = m.intValue(s)
	case "ndkVersion":
		m.doc.NDKVersion, err = m.stringValue(s)
	}
	return err
}

func (m *gradleMapper) mapCompileOptions(block stmt) error {
	for _, s := range block.body {
		if !s.assign {
			continue
		}
		switch s.head {
		case "sourceCompatibility":
			m.doc.SourceCompatibility = m.javaLevelText(s.value)
		case "targetCompatibility":
			m.doc.TargetCompatibility = m.javaLevelText(s.value)
		}
	}
	return nil
}

func (m *gradleMapper) mapKotlinOptions(block stmt) error {
	for _, s := range block.body {
		if s.assign && s.head == "jvmTarget" {
			m.doc.JvmTarget = m.javaLevelText(s.value)
		}
	}
	return nil
}

func (m *gradleMapper) mapDefaultConfig(block stmt) error {
	for _, s := range block.body {
		if s.call && len(s.args) == 1 {
			s = stmt{line: s.line, head: s.head, assign: true, value: s.args[0]}
		}
		if !s.assign {
			continue
		}
		var err error
		switch s.head {
		case "applicationId":
			m.doc.ApplicationID, err = m.literalString(s)
		case "minSdk", "minSdkVersion":
			m.doc.MinSdk, err = m.intValue(s)
		case "targetSdk", "targetSdkVersion":
			m.doc.TargetSdk, err = m.intValue(s)
		case "versionCode":
			m.doc.VersionCode, err = m.intValue(s)
		case "versionName":
			m.doc.VersionName, err = m.stringValue(s)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *gradleMapper) mapBuildTypes(block stmt) error {
	for _, s := range block.body {
		if !s.block || buildTypeName(s) != "release" {
			continue
		}
		for _, inner := range s.body {
			if !inner.assign || inner.head != "signingConfig" {
				continue
			}
			ref, err := m.signingRef(inner.value)
			if err != nil {
				return err
			}
			m.doc.SigningConfigRef = ref
		}
	}
	return nil
}

func (m *gradleMapper) mapSigningConfigs(block stmt) error {
	for _, s := range block.body {
		var name string
		switch {
		case s.call && (s.head == "create" || s.head == "register" || s.head == "getByName" || s.head == "maybeCreate"):
			if len(s.args) != 1 || s.args[0].kind != exprString {
				return m.errorf(s.line, "%s(...) expects a single string argument", s.head)
			}
			name = s.args[0].text
		case s.block && !s.call && s.head != "":
			name = s.head
		default:
			continue
		}
		if !containsString(m.doc.SigningConfigs, name) {
			m.doc.SigningConfigs = append(m.doc.SigningConfigs, name)
		}
	}
	return nil
}

func (m *gradleMapper) mapFlutter(block stmt) error {
	for _, s := range block.body {
		if s.assign && s.head == "source" {
			src, err := m.literalString(s)
			if err != nil {
				return err
			}
			m.doc.FlutterSource = src
		}
	}
	return nil
}

func (m *gradleMapper) literalString(s stmt) (string, error) {
	if s.value.kind != exprString {
		return "", m.errorf(s.line, "%s must be a string literal", s.head)
	}
	return s.value.text, nil
}

func (m *gradleMapper) intValue(s stmt) (descriptor.IntValue, error) {
	switch s.value.kind {
	case exprInt:
		n, err := strconv.Atoi(s.value.text)
		if err != nil {
			return descriptor.IntValue{}, m.errorf(s.line, "%s: invalid integer %q", s.head, s.value.text)
		}
		return descriptor.Int(n), nil
	case exprPath:
		if descriptor.IsReference(s.value.text) {
			return descriptor.IntRef(s.value.text), nil
		}
	}
	return descriptor.IntValue{}, m.errorf(s.line, "%s must be an integer or a %s* reference", s.head, descriptor.RefPrefix)
}

func (m *gradleMapper) stringValue(s stmt) (descriptor.StringValue, error) {
	switch s.value.kind {
	case exprString:
		return descriptor.Str(s.value.text), nil
	case exprPath:
		if descriptor.IsReference(s.value.text) {
			return descriptor.StrRef(s.value.text), nil
		}
	}
	return descriptor.StringValue{}, m.errorf(s.line, "%s must be a string or a %s* reference", s.head, descriptor.RefPrefix)
}

// javaLevelText keeps the level as written; it is interpreted during validation.
func (m *gradleMapper) javaLevelText(e expr) string {
	switch e.kind {
	case exprCall:
		return e.text + "()"
	default:
		return e.text
	}
}

func (m *gradleMapper) signingRef(e expr) (string, error) {
	switch e.kind {
	case exprCall:
		if strings.HasPrefix(e.text, "signingConfigs.") && len(e.args) == 1 && e.args[0].kind == exprString {
			return e.args[0].text, nil
		}
	case exprPath:
		if e.text == "null" {
			return "", nil
		}
		if name, ok := strings.CutPrefix(e.text, "signingConfigs."); ok && !strings.Contains(name, ".") {
			return name, nil
		}
	}
	return "", m.errorf(e.line, "unsupported signingConfig expression %s", describeExpr(e))
}

func buildTypeName(s stmt) string {
	if s.call && (s.head == "getByName" || s.head == "create" || s.head == "named") && len(s.args) == 1 && s.args[0].kind == exprString {
		return s.args[0].text
	}
	if !s.call {
		return s.head
	}
	return ""
}

func describeExpr(e expr) string {
	switch e.kind {
	case exprString:
		return strconv.Quote(e.text)
	case exprCall:
		return fmt.Sprintf("%s(...)", e.text)
	case exprOther:
		if e.text == "" {
			return "(expression)"
		}
	}
	return e.text
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

var _ ports.DescriptorDecoder = (*GradleDecoder)(nil)
