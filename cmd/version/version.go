package version

import (
	"fmt"
	"strconv"
)

const FMT_VERSTR = "%v.%v.%v-%x"

var (
	majorVer  uint64 = 0
	minorVer  uint64 = 1
	patchVer  uint64 = 0
	commitVer uint64 = 0

	// set via ldflags:
	//  -ldflags "-X 'github.com/quadrachain/quadra-go/cmd/version.GitCommit=...'"
	GitCommit string
)

func init() {
	if GitCommit != "" {
		commitVer, _ = strconv.ParseUint(GitCommit, 16, 64)
	}
}

func String() string {
	return fmt.Sprintf(FMT_VERSTR, majorVer, minorVer, patchVer, commitVer)
}

func Major() uint64 {
	return majorVer
}

func Minor() uint64 {
	return minorVer
}

func Patch() uint64 {
	return patchVer
}

func CommitHash() uint64 {
	return commitVer
}
