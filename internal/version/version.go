package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

// Version information for the quill CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Semver parses Version.
func Semver() (*semver.Version, error) {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return nil, fmt.Errorf("version %q: %w", Version, err)
	}
	return v, nil
}

// Check reports whether the running tool satisfies constraint (e.g. ">=0.1, <0.3").
// Pre-release builds are checked by their release core, so 0.2.0-dev satisfies ">=0.2".
func Check(constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("bad version constraint %q: %w", constraint, err)
	}
	v, err := Semver()
	if err != nil {
		return err
	}
	core, err := v.SetPrerelease("")
	if err != nil {
		return err
	}
	if ok, errs := c.Validate(&core); !ok {
		if len(errs) > 0 {
			return fmt.Errorf("quill %s does not satisfy %q: %w", Version, constraint, errs[0])
		}
		return fmt.Errorf("quill %s does not satisfy %q", Version, constraint)
	}
	return nil
}

// Colored renders Version with major/minor/patch in distinct colours.
// Unparseable versions are returned as is.
func Colored() string {
	v, err := Semver()
	if err != nil {
		return Version
	}
	s := versionMajorColor.Sprint(v.Major()) + "." + versionMinorColor.Sprint(v.Minor()) + "." + versionPatchColor.Sprint(v.Patch())
	if pre := v.Prerelease(); pre != "" {
		s += "-" + pre
	}
	if meta := v.Metadata(); meta != "" {
		s += "+" + meta
	}
	return s
}

// String is the full one-line description printed by `quill version`.
func String() string {
	s := "quill " + Colored()
	if GitCommit != "" {
		s += " (" + GitCommit + ")"
	}
	if BuildDate != "" {
		s += " built " + BuildDate
	}
	return s
}
