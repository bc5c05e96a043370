package protocol

// NodeConfiguration configures a worker node for one build: the environment
// and working directory it must adopt, its identity, and the logging setup it
// should attach.
type NodeConfiguration struct {
	NodeID             int32
	Environment        map[string]string
	WorkingDirectory   string
	Locale             string
	LoggerDescriptions []string

	// TraceEnabled was introduced at protocol version 2. Older senders omit
	// it and readers default it to false.
	TraceEnabled bool
}

// Type implements Packet.
func (p *NodeConfiguration) Type() PacketType { return TypeNodeConfiguration }

// Translate implements Packet.
func (p *NodeConfiguration) Translate(t *Translator) {
	t.Int32(&p.NodeID)
	t.StringMap(&p.Environment)
	t.String(&p.WorkingDirectory)
	t.String(&p.Locale)
	t.StringSlice(&p.LoggerDescriptions)
	if t.Version() >= 2 {
		t.Bool(&p.TraceEnabled)
	} else if t.Mode() == TranslateRead {
		p.TraceEnabled = false
	}
}

// NodeBuildComplete tells a node the build is over and whether it should
// prepare for reuse instead of exiting.
type NodeBuildComplete struct {
	PrepareForReuse bool
}

// Type implements Packet.
func (p *NodeBuildComplete) Type() PacketType { return TypeNodeBuildComplete }

// Translate implements Packet.
func (p *NodeBuildComplete) Translate(t *Translator) {
	t.Bool(&p.PrepareForReuse)
}

// NodeShutdownPacket is the node's final upstream notification: why it shut
// down and, for error shutdowns, the terminal error text.
type NodeShutdownPacket struct {
	Reason int32
	Err    NullString
}

// Type implements Packet.
func (p *NodeShutdownPacket) Type() PacketType { return TypeNodeShutdown }

// Translate implements Packet.
func (p *NodeShutdownPacket) Translate(t *Translator) {
	t.Int32(&p.Reason)
	t.NullString(&p.Err)
}
