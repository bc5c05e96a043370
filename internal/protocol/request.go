package protocol

// BuildRequest asks a node to build a set of targets against a registered
// configuration.
type BuildRequest struct {
	SubmissionID          int32
	ConfigurationID       int32
	GlobalRequestID       int32
	ParentGlobalRequestID int32 // -1 for the root request
	NodeRequestID         int32
	Targets               []string

	// Priority was introduced at protocol version 2. Older senders omit it
	// and readers default it to zero.
	Priority int32
}

// Type implements Packet.
func (p *BuildRequest) Type() PacketType { return TypeBuildRequest }

// Translate implements Packet.
func (p *BuildRequest) Translate(t *Translator) {
	t.Int32(&p.SubmissionID)
	t.Int32(&p.ConfigurationID)
	t.Int32(&p.GlobalRequestID)
	t.Int32(&p.ParentGlobalRequestID)
	t.Int32(&p.NodeRequestID)
	t.StringSlice(&p.Targets)
	if t.Version() >= 2 {
		t.Int32(&p.Priority)
	} else if t.Mode() == TranslateRead {
		p.Priority = 0
	}
}

// ConfigurationResponse reconciles a node-local configuration id with the
// controller-assigned canonical one.
type ConfigurationResponse struct {
	NodeConfigurationID int32 // negative, node-generated
	ConfigurationID     int32 // positive, controller-assigned
}

// Type implements Packet.
func (p *ConfigurationResponse) Type() PacketType { return TypeConfigurationResponse }

// Translate implements Packet.
func (p *ConfigurationResponse) Translate(t *Translator) {
	t.Int32(&p.NodeConfigurationID)
	t.Int32(&p.ConfigurationID)
}

// RequestUnblockedPacket resumes a build request the engine reported blocked.
type RequestUnblockedPacket struct {
	GlobalRequestID int32
	Targets         []string
}

// Type implements Packet.
func (p *RequestUnblockedPacket) Type() PacketType { return TypeRequestUnblocked }

// Translate implements Packet.
func (p *RequestUnblockedPacket) Translate(t *Translator) {
	t.Int32(&p.GlobalRequestID)
	t.StringSlice(&p.Targets)
}
