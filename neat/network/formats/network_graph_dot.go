// Package formats provides serialization of the network phenotype graph into
// formats consumable by external diagram tooling.
package formats

import (
	"gonum.org/v1/gonum/graph/encoding/dot"
	"io"

	"github.com/yaricom/goNEATMaze/neat/network"
)

// WriteDOT is to write provided network graph using the GraphViz DOT encoding.
// See DOT Guide: https://www.graphviz.org/pdf/dotguide.pdf
func WriteDOT(w io.Writer, n *network.Network) error {
	data, err := dot.Marshal(n, n.Name, "", "")
	if err != nil {
		return err
	}
	if _, err = w.Write(data); err != nil {
		return err
	}
	return nil
}
