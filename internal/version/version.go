package version

import "strings"

// Values are set at build time using -ldflags.
var Version = "dev"
var Built = ""
var GitCommit = ""

type Info struct {
	Version   string `yaml:"version"`
	Built     string `yaml:"built,omitempty"`
	GitCommit string `yaml:"git_commit,omitempty"`
}

func GetInfo() Info {
	return Info{
		Version:   Version,
		Built:     Built,
		GitCommit: GitCommit,
	}
}

// Line renders the version line printed by the CLI.
func Line(program string) string {
	info := GetInfo()
	if info.Version == "" || info.Version == "dev" {
		return program + " dev"
	}
	parts := []string{program, "version", info.Version}
	if info.GitCommit != "" {
		parts = append(parts, "("+info.GitCommit+")")
	}
	if info.Built != "" {
		parts = append(parts, "built", info.Built)
	}
	return strings.Join(parts, " ")
}
