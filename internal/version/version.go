package version

import "fmt"

const AppName = "tphmonitor"

type Version struct {
	MajorNumber int64
	MinorNumber int64
	PatchNumber int64
}

// String returns the dotted version, e.g. 1.2.0
func (m *Version) String() string {
	return fmt.Sprintf("%d.%d.%d", m.MajorNumber, m.MinorNumber, m.PatchNumber)
}

// Banner is the line printed by the version command
func (m *Version) Banner() string {
	return fmt.Sprintf("%s version %s", AppName, m.String())
}

var (
	AppVersion = Version{
		MajorNumber: 1,
		MinorNumber: 2,
		PatchNumber: 0,
	}
)
