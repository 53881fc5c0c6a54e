// buildinfoprint is imported for the side effect of printing the build info
// to os.StdErr
package buildinfoprint

import "github.com/plumelab/chromisc/buildinfo"

func init() {
	buildinfo.PrintToStdErr()
}
