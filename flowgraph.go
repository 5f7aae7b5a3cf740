// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsdr

import "code.hybscloud.com/atomix"

// FlowgraphID identifies a [Flowgraph]. Assigned from a monotonic
// process-wide counter so endpoints can be attributed to their owning
// flowgraph even across goroutines.
type FlowgraphID int64

// CircuitID identifies a [Circuit] within a flowgraph.
type CircuitID int

var nextFlowgraphID atomix.Int64

// Flowgraph is a graph of blocks wired together through typed ports, built
// up with [Flowgraph.NewCircuit], [Connect], [ConnectWithReturn] and
// [ConnectBroadcast], then checked once with [Flowgraph.Validate] before
// scheduling.
type Flowgraph struct {
	id            FlowgraphID
	nextNode      NodeID
	nextCircuit   CircuitID
	circuits      map[CircuitID]*circuitData
	validated     bool
	returnSenders map[endpointBase]any // endpointBase -> *MPSCSender[T], keyed by returnDest
}

type edge struct {
	source     endpointBase
	dest       endpointBase
	hasReturn  bool
	returnDest endpointBase
}

type circuitData struct {
	nodes map[NodeID]struct{}
	edges []edge
}

// NewFlowgraph creates an empty flowgraph with a fresh id.
func NewFlowgraph() *Flowgraph {
	id := FlowgraphID(nextFlowgraphID.AddAcqRel(1))
	return &Flowgraph{id: id, circuits: make(map[CircuitID]*circuitData), returnSenders: make(map[endpointBase]any)}
}

// ID returns fg's identity, the value blocks must pass to [NewEndpoint] so
// the Connect functions can reject endpoints from a foreign flowgraph.
func (fg *Flowgraph) ID() FlowgraphID { return fg.id }

// NewNode reserves a node id for a block about to be wired into fg. Callers
// typically store the returned id alongside the block.
func (fg *Flowgraph) NewNode() NodeID {
	id := fg.nextNode
	fg.nextNode++
	return id
}

// Circuit is one closed buffer loop within a flowgraph: a chain of
// connections rooted at the return endpoint that recycles the circuit's
// buffer pool.
type Circuit struct {
	flowgraphID FlowgraphID
	id          CircuitID
}

// NewCircuit starts a new circuit. The circuit's buffer pool count is fixed
// by the initial message slice passed to [ConnectWithReturn]/
// [ConnectBroadcast], truncated to that connection's capacity.
func (fg *Flowgraph) NewCircuit() *Circuit {
	id := fg.nextCircuit
	fg.nextCircuit++
	fg.circuits[id] = &circuitData{nodes: make(map[NodeID]struct{})}
	return &Circuit{flowgraphID: fg.id, id: id}
}

func (fg *Flowgraph) circuit(c *Circuit) *circuitData {
	if c.flowgraphID != fg.id {
		panic("qsdr: circuit belongs to a different flowgraph")
	}
	return fg.circuits[c.id]
}

func recordNodes(cd *circuitData, es ...endpointBase) {
	for _, e := range es {
		cd.nodes[e.node] = struct{}{}
	}
}

// ensureBelongs reports a WiringError if ep was not obtained from fg,
// catching the mistake of wiring one flowgraph's endpoint into another's
// Connect call at construction time instead of letting it corrupt both
// graphs' edge bookkeeping silently.
func ensureBelongs[P any](fg *Flowgraph, ep Endpoint[P]) error {
	if ep.flowgraph != fg.id {
		return &WiringError{Circuit: -1, Reason: "endpoint belongs to a different flowgraph"}
	}
	return nil
}

// Connect wires a plain forward link: source sends owned items, dest
// receives them. No buffer return path is created; use this for links
// inside a circuit that are not the circuit's terminal, buffer-recycling
// edge.
func Connect[T any](fg *Flowgraph, c *Circuit, capacity int, source Endpoint[PortOut[T]], dest Endpoint[PortIn[T]]) error {
	if err := ensureBelongs(fg, source); err != nil {
		return err
	}
	if err := ensureBelongs(fg, dest); err != nil {
		return err
	}
	if source.ptr.Connected() {
		return wiringErrorf(int(c.id), "source already connected")
	}
	if dest.ptr.Connected() {
		return wiringErrorf(int(c.id), "destination already connected")
	}
	sdr, rcv := NewSPSC[T](capacity)
	source.ptr.sender = sdr
	dest.ptr.receiver = rcv

	cd := fg.circuit(c)
	e := edge{source: source.base(), dest: dest.base()}
	cd.edges = append(cd.edges, e)
	recordNodes(cd, e.source, e.dest)
	return nil
}

// ConnectWithReturn wires a forward reference link (source sends, dest
// borrows and releases) together with its return path: released items flow
// back to returnDest, the PortSource of the circuit's buffer-owning block.
// initial seeds the return channel with the circuit's starting buffer pool,
// up to capacity items.
//
// The return channel is MPSC: a second ConnectWithReturn call naming a
// returnDest already wired by an earlier call joins that same channel as an
// additional producer instead of failing, so several dest blocks (e.g. the
// branches of a fan-out) can share one buffer-owning source.
func ConnectWithReturn[T any](fg *Flowgraph, c *Circuit, capacity int, source Endpoint[PortOut[T]], dest Endpoint[PortRefIn[T]], returnDest Endpoint[PortSource[T]], initial []T) error {
	if err := ensureBelongs(fg, source); err != nil {
		return err
	}
	if err := ensureBelongs(fg, dest); err != nil {
		return err
	}
	if err := ensureBelongs(fg, returnDest); err != nil {
		return err
	}
	if source.ptr.Connected() {
		return wiringErrorf(int(c.id), "source already connected")
	}
	if dest.ptr.Connected() {
		return wiringErrorf(int(c.id), "destination already connected")
	}

	retKey := returnDest.base()
	var retSender *MPSCSender[T]
	if returnDest.ptr.Connected() {
		existing, ok := fg.returnSenders[retKey]
		if !ok {
			return wiringErrorf(int(c.id), "return destination already connected by an incompatible channel")
		}
		master, ok := existing.(*MPSCSender[T])
		if !ok {
			return wiringErrorf(int(c.id), "return destination connected with a different item type")
		}
		retSender = master.Clone()
	} else {
		master, retReceiver := NewMPSC[T](capacity)
		returnDest.ptr.receiver = retReceiver
		fg.returnSenders[retKey] = master
		retSender = master
	}
	ConnectInitial[T](retSender, capacity, initial)

	fwdSender, fwdReceiver := NewSPSC[T](capacity)
	dest.ptr.receiver = NewRefReceiver[T](fwdReceiver, retSender)
	source.ptr.sender = fwdSender

	cd := fg.circuit(c)
	e := edge{source: source.base(), dest: dest.base(), hasReturn: true, returnDest: returnDest.base()}
	cd.edges = append(cd.edges, e)
	recordNodes(cd, e.source, e.dest, e.returnDest)
	return nil
}

// ConnectBroadcast wires a single-producer broadcast link: source fans each
// sent item out to every dest by reference; a buffer returns to returnDest
// once every dest has released its envelope. initial seeds the return
// channel with the circuit's starting buffer pool.
func ConnectBroadcast[T any](fg *Flowgraph, c *Circuit, capacity int, source Endpoint[PortOut[T]], dests []Endpoint[PortRefIn[T]], returnDest Endpoint[PortSource[T]], initial []T) error {
	if err := ensureBelongs(fg, source); err != nil {
		return err
	}
	if err := ensureBelongs(fg, returnDest); err != nil {
		return err
	}
	if source.ptr.Connected() {
		return wiringErrorf(int(c.id), "source already connected")
	}
	for _, d := range dests {
		if err := ensureBelongs(fg, d); err != nil {
			return err
		}
		if d.ptr.Connected() {
			return wiringErrorf(int(c.id), "destination already connected")
		}
	}
	if returnDest.ptr.Connected() {
		return wiringErrorf(int(c.id), "return destination already connected")
	}

	sender, receivers, retReceiver, seedSender := NewSPBroadcast[T](capacity, len(dests))
	ConnectInitial[T](seedSender, capacity, initial)
	seedSender.Close()

	returnDest.ptr.receiver = retReceiver
	source.ptr.sender = sender

	cd := fg.circuit(c)
	for i, d := range dests {
		d.ptr.receiver = receivers[i]
		e := edge{source: source.base(), dest: d.base(), hasReturn: true, returnDest: returnDest.base()}
		cd.edges = append(cd.edges, e)
		recordNodes(cd, e.source, e.dest, e.returnDest)
	}
	return nil
}

// ValidatedFlowgraph is the result of a successful [Flowgraph.Validate]: a
// record that every circuit of the flowgraph passed. [Run] and [Sequence]
// accept any [Stream] and do not check for it.
type ValidatedFlowgraph struct {
	id FlowgraphID
}

// Validate checks every circuit is a tree rooted at exactly one return
// endpoint, with no cycles and no leaf lacking a return edge.
func (fg *Flowgraph) Validate() (*ValidatedFlowgraph, error) {
	for id, cd := range fg.circuits {
		if err := validateCircuit(int(id), cd); err != nil {
			return nil, err
		}
	}
	fg.validated = true
	return &ValidatedFlowgraph{id: fg.id}, nil
}

func validateCircuit(id int, cd *circuitData) error {
	if len(cd.edges) == 0 {
		return wiringErrorf(id, "circuit has no edges")
	}

	roots := make(map[NodeID]struct{})
	for _, e := range cd.edges {
		if e.hasReturn {
			roots[e.returnDest.node] = struct{}{}
		}
	}
	if len(roots) == 0 {
		return wiringErrorf(id, "circuit has no return endpoint")
	}
	if len(roots) > 1 {
		return wiringErrorf(id, "circuit has more than one return endpoint")
	}
	var root NodeID
	for n := range roots {
		root = n
	}

	bySource := make(map[NodeID][]edge)
	for _, e := range cd.edges {
		bySource[e.source.node] = append(bySource[e.source.node], e)
	}

	visited := make(map[NodeID]struct{})
	var visit func(n NodeID) error
	visit = func(n NodeID) error {
		if _, ok := visited[n]; ok {
			return wiringErrorf(id, "circuit contains a cycle")
		}
		visited[n] = struct{}{}
		outs := bySource[n]
		for _, e := range outs {
			if len(bySource[e.dest.node]) == 0 && !e.hasReturn {
				return wiringErrorf(id, "edge reaches a leaf without a return")
			}
			if err := visit(e.dest.node); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(root); err != nil {
		return err
	}

	if len(visited) != len(cd.nodes) {
		return wiringErrorf(id, "circuit has disconnected fragments")
	}
	return nil
}
