// Package misc keeps build time information about the program.
package misc

// Values below are set by the linker: -ldflags "-X reflow/misc.version=..."
var (
	appName = "reflow"
	version = "dev"
	gitHash = "unknown"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
