// Package version reports the build of the voicenotes binary.
//
// Release builds set the variables through -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/voicenotes/version.Version=1.2.0 \
//	  -X github.com/kbukum/voicenotes/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Builds without ldflags fall back to the VCS stamps from debug.ReadBuildInfo.
package version
