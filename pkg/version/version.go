package version

import "runtime"

// Overridden at link time, e.g.
//
//	go build -ldflags "-X github.com/NeuralTrust/FollowerManager/pkg/version.Version=1.2.0"
var (
	AppName   = "FollowerManager"
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// Info is reported by the status endpoint.
type Info struct {
	AppName   string `json:"appName"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	Runtime   string `json:"runtime"`
}

func GetInfo() Info {
	return Info{
		AppName:   AppName,
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		Runtime:   runtime.Version() + " " + runtime.GOOS + "/" + runtime.GOARCH,
	}
}
