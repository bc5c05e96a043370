package protocol

import (
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// BuildResultPacket carries a build result upstream. The in-memory error is
// flattened to its message; the distinction between no error and an error
// with an empty message survives the round trip.
type BuildResultPacket struct {
	Result *domain.BuildResult
}

// Type implements Packet.
func (p *BuildResultPacket) Type() PacketType { return TypeBuildResult }

// Translate implements Packet.
func (p *BuildResultPacket) Translate(t *Translator) {
	var (
		submissionID int32
		configID     int32
		globalID     int32
		parentID     int32
		nodeID       int32
	)
	if t.Mode() == TranslateWrite {
		submissionID = p.Result.SubmissionID
		configID = p.Result.ConfigurationID
		globalID = p.Result.GlobalRequestID
		parentID = p.Result.ParentGlobalRequestID
		nodeID = p.Result.NodeRequestID
	}
	t.Int32(&submissionID)
	t.Int32(&configID)
	t.Int32(&globalID)
	t.Int32(&parentID)
	t.Int32(&nodeID)

	if t.Mode() == TranslateWrite {
		p.translateWrite(t)
		return
	}
	p.Result = domain.NewBuildResult(submissionID, configID, globalID, parentID, nodeID)
	p.translateRead(t)
}

func (p *BuildResultPacket) translateWrite(t *Translator) {
	names := p.Result.TargetNames()
	n := int32(len(names))
	t.length(&n)
	for _, name := range names {
		res, _ := p.Result.TargetResultFor(name)
		state := byte(res.State)
		t.String(&name)
		t.Byte(&state)
		t.Bool(&res.DoesNotFailBuild)
	}

	errText := NullString{}
	if err := p.Result.Err(); err != nil {
		errText = NullStringOf(err.Error())
	}
	t.NullString(&errText)

	circular := p.Result.CircularDependency()
	t.Bool(&circular)
	base := p.Result.BaseSuccess()
	t.Bool(&base)

	snapshot := p.Result.ProjectSnapshot()
	TranslateOptional(t, &snapshot, newProjectInstance, TranslateProjectInstance)
}

func (p *BuildResultPacket) translateRead(t *Translator) {
	var n int32
	t.length(&n)
	if t.Err() != nil {
		return
	}
	for i := int32(0); i < n; i++ {
		var (
			name  string
			state byte
			dnfb  bool
		)
		t.String(&name)
		t.Byte(&state)
		t.Bool(&dnfb)
		if t.Err() != nil {
			return
		}
		_ = p.Result.AddTargetResult(name, domain.TargetResult{
			State:            domain.TargetState(state),
			DoesNotFailBuild: dnfb,
		})
	}

	var errText NullString
	t.NullString(&errText)
	if t.Err() == nil && errText.Valid {
		p.Result.SetErr(zerr.New(errText.Value))
	}

	var circular, base bool
	t.Bool(&circular)
	t.Bool(&base)
	if t.Err() != nil {
		return
	}
	if circular {
		p.Result.SetCircularDependency()
	}
	p.Result.SetBaseSuccess(base)

	var snapshot *domain.ProjectInstance
	TranslateOptional(t, &snapshot, newProjectInstance, TranslateProjectInstance)
	if t.Err() == nil && snapshot != nil {
		p.Result.SetProjectSnapshot(snapshot)
	}
}
