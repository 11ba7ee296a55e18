package network

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stdmath "math"
	"testing"

	"github.com/yaricom/goNEATMaze/neat/math"
)

func connect(weight float64, in, out *NNode) {
	link := NewLink(weight, in, out)
	out.Incoming = append(out.Incoming, link)
	in.Outgoing = append(in.Outgoing, link)
}

// the minimal initial topology: two inputs, one bias, two sigmoid outputs,
// fully connected with fixed weights
func buildInitialNetwork(t *testing.T) *Network {
	in0 := NewNNode(0, InputNeuron, 0, math.LinearActivation)
	in1 := NewNNode(1, InputNeuron, 0, math.LinearActivation)
	bias := NewNNode(4, BiasNeuron, 0, math.LinearActivation)
	out2 := NewNNode(2, OutputNeuron, 0, math.SigmoidSteepenedActivation)
	out3 := NewNNode(3, OutputNeuron, 0, math.SigmoidSteepenedActivation)

	connect(0.5, in0, out2)
	connect(-0.5, in0, out3)
	connect(0.0, in1, out2)
	connect(1.0, in1, out3)
	connect(0.1, bias, out2)
	connect(-0.1, bias, out3)

	net, err := NewNetwork([]*NNode{in0, in1, out2, out3, bias}, 1)
	require.NoError(t, err)
	return net
}

func TestNetwork_Activate(t *testing.T) {
	net := buildInitialNetwork(t)

	outputs, err := net.Activate([]float64{1.0, 0.0})
	require.NoError(t, err)
	require.Len(t, outputs, 2)

	// output 2 = sigmoid(4.9 * (1*0.5 + 0*0.0 + 1*0.1))
	assert.InDelta(t, 0.9498, outputs[0], 1e-4)
	// output 3 = sigmoid(4.9 * (1*(-0.5) + 0*1.0 + 1*(-0.1)))
	assert.InDelta(t, 0.0502, outputs[1], 1e-4)
}

func TestNetwork_Activate_Pure(t *testing.T) {
	net := buildInitialNetwork(t)

	first, err := net.Activate([]float64{0.3, -0.7})
	require.NoError(t, err)
	second, err := net.Activate([]float64{0.3, -0.7})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNetwork_Activate_WrongInputCount(t *testing.T) {
	net := buildInitialNetwork(t)
	_, err := net.Activate([]float64{1.0})
	assert.Error(t, err)
}

func TestNetwork_Activate_HiddenLayer(t *testing.T) {
	in0 := NewNNode(0, InputNeuron, 0, math.LinearActivation)
	hidden := NewNNode(5, HiddenNeuron, 0.1, math.SigmoidSteepenedActivation)
	out := NewNNode(2, OutputNeuron, -0.2, math.SigmoidSteepenedActivation)

	connect(1.0, in0, hidden)
	connect(0.5, hidden, out)

	net, err := NewNetwork([]*NNode{in0, hidden, out}, 2)
	require.NoError(t, err)

	outputs, err := net.Activate([]float64{1.0})
	require.NoError(t, err)

	h := 1.0 / (1.0 + stdmath.Exp(-4.9*(1.0+0.1)))
	expected := 1.0 / (1.0 + stdmath.Exp(-4.9*(h*0.5-0.2)))
	assert.InDelta(t, expected, outputs[0], 1e-12)
}

func TestNetwork_Activate_UnreachableOutputReportsZero(t *testing.T) {
	// two hidden nodes wired in a cycle feed the only output; Kahn's walk
	// can not reach any of them, so the output must report 0 with a warning
	in0 := NewNNode(0, InputNeuron, 0, math.LinearActivation)
	h1 := NewNNode(5, HiddenNeuron, 0, math.SigmoidSteepenedActivation)
	h2 := NewNNode(6, HiddenNeuron, 0, math.SigmoidSteepenedActivation)
	out := NewNNode(2, OutputNeuron, 0, math.SigmoidSteepenedActivation)

	connect(1.0, h1, h2)
	connect(1.0, h2, h1)
	connect(1.0, h2, out)

	net, err := NewNetwork([]*NNode{in0, h1, h2, out}, 3)
	require.NoError(t, err)

	outputs, err := net.Activate([]float64{1.0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, outputs[0])
}

func TestNewNetwork_NoOutputs(t *testing.T) {
	in0 := NewNNode(0, InputNeuron, 0, math.LinearActivation)
	_, err := NewNetwork([]*NNode{in0}, 4)
	assert.Error(t, err)
}

func TestNewNetwork_DuplicateNodeId(t *testing.T) {
	in0 := NewNNode(0, InputNeuron, 0, math.LinearActivation)
	dup := NewNNode(0, OutputNeuron, 0, math.SigmoidSteepenedActivation)
	_, err := NewNetwork([]*NNode{in0, dup}, 5)
	assert.Error(t, err)
}

func TestNetwork_Counts(t *testing.T) {
	net := buildInitialNetwork(t)
	assert.Equal(t, 5, net.NodeCount())
	assert.Equal(t, 6, net.LinkCount())
	assert.Equal(t, 11, net.Complexity())
}
