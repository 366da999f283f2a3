package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Name is the product name used in user agents and version output.
const Name = "voicenotes"

var (
	// These variables are set at build time using -ldflags
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info describes the running binary.
type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	IsRelease bool   `json:"is_release"`
	IsDirty   bool   `json:"is_dirty"`
}

// Get returns the build information.
func Get() Info {
	info := Info{
		Name:      Name,
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		IsRelease: Version != "dev" && !strings.Contains(Version, "dirty"),
	}

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = buildInfo.GoVersion
		applyVCS(&info, buildInfo.Settings)
	}
	return info
}

func applyVCS(info *Info, settings []debug.BuildSetting) {
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = setting.Value
				if len(info.GitCommit) > 7 {
					info.GitCommit = info.GitCommit[:7]
				}
			}
		case "vcs.modified":
			info.IsDirty = setting.Value == "true"
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = setting.Value
			}
		}
	}
}

// Short returns "1.2.0-abc1234" (or just the version without a commit).
func (i Info) Short() string {
	if i.GitCommit == "" {
		return i.Version
	}
	if i.IsDirty {
		return fmt.Sprintf("%s-%s-dirty", i.Version, i.GitCommit)
	}
	return fmt.Sprintf("%s-%s", i.Version, i.GitCommit)
}

// String returns the line printed by `voicenotes version`.
func (i Info) String() string {
	s := i.Name + " " + i.Short()
	var extra []string
	if i.BuildTime != "" {
		extra = append(extra, "built "+i.BuildTime)
	}
	if i.GoVersion != "" {
		extra = append(extra, i.GoVersion)
	}
	if len(extra) > 0 {
		s += " (" + strings.Join(extra, ", ") + ")"
	}
	return s
}

// UserAgent returns the User-Agent sent to the transcription backend.
func UserAgent() string {
	return Name + "/" + Version
}
