package mqb

import (
	"fmt"

	"github.com/cocosip/go-moeqi-codec/moeqi/common"
)

// Pack would serialize bs as MOEQIBIN. Producing streams needs the model
// fitting and residual coding toolchain, which is not part of this module,
// so Pack always fails with ErrUnsupported.
func Pack(bs *Bitstream) ([]byte, error) {
	return nil, fmt.Errorf("%w: MOEQIBIN packer is not implemented", common.ErrUnsupported)
}
