package genetics

// connectionKey identifies a structural connection innovation by its endpoints
type connectionKey struct {
	inNodeId  int
	outNodeId int
}

// nodeSplit holds the identities handed out for one node-split innovation:
// the new hidden node and the two connections replacing the split one.
type nodeSplit struct {
	// NodeId the id of the new hidden node
	NodeId int
	// InboundInnovation the innovation of the source -> new node connection
	InboundInnovation int64
	// OutboundInnovation the innovation of the new node -> destination connection
	OutboundInnovation int64
}

// InnovationTracker is the single owner of the global node id and innovation
// counters of one evolutionary run. It also keeps the per-generation history
// of structural innovations, so that identical structural mutations occurring
// independently within the same generation receive identical innovation
// numbers and later crossover can recognise them as matching genes. Across
// generations identical mutations receive distinct numbers, matching the
// original algorithm.
//
// The tracker is only ever touched from the main reproduction thread and is
// deliberately not synchronized.
type InnovationTracker struct {
	// the global counters, never reset within a run
	nextNodeId     int
	nextInnovation int64

	// the per-generation innovation history, cleared at the start of every generation
	connectionInnovations map[connectionKey]int64
	nodeInnovations       map[int64]nodeSplit
}

// NewInnovationTracker Creates new innovation tracker with counters starting
// at the provided values.
func NewInnovationTracker(startNodeId int, startInnovation int64) *InnovationTracker {
	return &InnovationTracker{
		nextNodeId:            startNodeId,
		nextInnovation:        startInnovation,
		connectionInnovations: make(map[connectionKey]int64),
		nodeInnovations:       make(map[int64]nodeSplit),
	}
}

// NextNodeId Returns the next unique node id with post increment
func (t *InnovationTracker) NextNodeId() int {
	id := t.nextNodeId
	t.nextNodeId++
	return id
}

// ConnectionInnovation Returns the innovation number assigned to the
// (inNodeId, outNodeId) connection in the current generation, allocating the
// next global innovation when the pair is seen for the first time.
func (t *InnovationTracker) ConnectionInnovation(inNodeId, outNodeId int) int64 {
	key := connectionKey{inNodeId: inNodeId, outNodeId: outNodeId}
	if innovation, ok := t.connectionInnovations[key]; ok {
		return innovation
	}
	innovation := t.nextInnovation
	t.connectionInnovations[key] = innovation
	t.nextInnovation++
	return innovation
}

// RegisterNodeSplit Returns the identities assigned to the split of the
// connection with the provided innovation number in the current generation.
// When this split is novel, a fresh node id and two connection innovations
// are allocated and cached against the split connection innovation.
func (t *InnovationTracker) RegisterNodeSplit(connInnovation int64, inNodeId, outNodeId int) (newNodeId int, inboundInnovation, outboundInnovation int64) {
	if split, ok := t.nodeInnovations[connInnovation]; ok {
		return split.NodeId, split.InboundInnovation, split.OutboundInnovation
	}
	split := nodeSplit{
		NodeId: t.NextNodeId(),
	}
	split.InboundInnovation = t.ConnectionInnovation(inNodeId, split.NodeId)
	split.OutboundInnovation = t.ConnectionInnovation(split.NodeId, outNodeId)
	t.nodeInnovations[connInnovation] = split
	return split.NodeId, split.InboundInnovation, split.OutboundInnovation
}

// ResetGenerationCache Drops the per-generation innovation history. Called
// exactly once at the start of each generation. The global counters are kept.
func (t *InnovationTracker) ResetGenerationCache() {
	t.connectionInnovations = make(map[connectionKey]int64)
	t.nodeInnovations = make(map[int64]nodeSplit)
}

// NodeIdCounter Returns the current value of the node id counter
func (t *InnovationTracker) NodeIdCounter() int {
	return t.nextNodeId
}

// InnovationCounter Returns the current value of the innovation counter
func (t *InnovationTracker) InnovationCounter() int64 {
	return t.nextInnovation
}

// RestoreCounters Sets the global counters, used when the evolutionary state
// is loaded from a save image.
func (t *InnovationTracker) RestoreCounters(nodeId int, innovation int64) {
	t.nextNodeId = nodeId
	t.nextInnovation = innovation
	t.ResetGenerationCache()
}
