package cmd

import (
	"fmt"
	"strings"

	"github.com/coreos/go-semver/semver"
	"github.com/spf13/cobra"
)

// semanticVersion is the release of the tool. Release builds set it with
// -ldflags "-X github.com/CrypToolProject/CrypTool-2-sub021/cmd/dca/cmd.semanticVersion=1.2.0".
var semanticVersion = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of the tool",
	RunE: func(*cobra.Command, []string) error {
		v, err := toolVersion()
		if err != nil {
			return err
		}
		fmt.Println(v.String())
		return nil
	},
}

// toolVersion parses the build version. A leading "v" is accepted.
func toolVersion() (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(semanticVersion, "v"))
	if err != nil {
		return nil, fmt.Errorf("invalid build version %q: %w", semanticVersion, err)
	}
	return v, nil
}
