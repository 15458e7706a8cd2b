package ports

import "context"

// FlutterVersions is the record the Flutter toolchain exposes to Android
// builds as flutter.compileSdkVersion, flutter.versionCode, etc.
type FlutterVersions struct {
	CompileSdk  int
	TargetSdk   int
	MinSdk      int
	VersionCode int
	VersionName string
	NDKVersion  string
}

// FlutterProvider supplies toolchain values for a Flutter project root
type FlutterProvider interface {
	Versions(ctx context.Context, projectDir string) (FlutterVersions, error)
}
