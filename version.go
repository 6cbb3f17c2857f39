package lojgloss

// Name is the program name shown by --version and /health.
const Name = "lojgloss"

// Release metadata, stamped at link time:
//
//	go build -ldflags "-X github.com/ZaguanLabs/lojgloss.Version=1.2.0 -X github.com/ZaguanLabs/lojgloss.GitCommit=$(git rev-parse HEAD)"
var (
	Version   = "0.1.0"
	GitCommit = ""
	BuildDate = ""
)

// FullVersion is Version plus the short commit when one was stamped,
// e.g. "0.1.0+3f9a2c1".
func FullVersion() string {
	if len(GitCommit) > 7 {
		return Version + "+" + GitCommit[:7]
	}
	if GitCommit != "" {
		return Version + "+" + GitCommit
	}
	return Version
}
