package renderertest

import (
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/resource"
	"github.com/cogentcore/webgpu/wgpu"
)

// Draw is the state bound on a Pass when DrawIndexed was recorded.
type Draw struct {
	Pipeline     resource.RenderPipeline
	BindGroups   map[uint32]resource.BindGroup
	VertexBuffer resource.Buffer
	IndexBuffer  resource.Buffer
	IndexFormat  wgpu.IndexFormat

	IndexCount    uint32
	InstanceCount uint32
	FirstIndex    uint32
	BaseVertex    int32
	FirstInstance uint32
}

// Pass is a fake renderer.RenderPass that records the names of the commands issued and a Draw for
// every DrawIndexed.
type Pass struct {
	// Commands lists the method names called, in order.
	Commands []string
	// Draws lists the recorded draws, in order.
	Draws []Draw

	pipeline     resource.RenderPipeline
	bindGroups   map[uint32]resource.BindGroup
	vertexBuffer resource.Buffer
	indexBuffer  resource.Buffer
	indexFormat  wgpu.IndexFormat
}

var _ renderer.RenderPass = &Pass{}

// NewPass creates an empty fake render pass.
func NewPass() *Pass {
	return &Pass{bindGroups: make(map[uint32]resource.BindGroup)}
}

func (p *Pass) SetPipeline(rp resource.RenderPipeline) {
	p.Commands = append(p.Commands, "SetPipeline")
	p.pipeline = rp
}

func (p *Pass) SetBindGroup(group uint32, bg resource.BindGroup) {
	p.Commands = append(p.Commands, "SetBindGroup")
	p.bindGroups[group] = bg
}

func (p *Pass) SetVertexBuffer(slot uint32, buf resource.Buffer) {
	p.Commands = append(p.Commands, "SetVertexBuffer")
	p.vertexBuffer = buf
}

func (p *Pass) SetIndexBuffer(buf resource.Buffer, format wgpu.IndexFormat) {
	p.Commands = append(p.Commands, "SetIndexBuffer")
	p.indexBuffer = buf
	p.indexFormat = format
}

func (p *Pass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.Commands = append(p.Commands, "DrawIndexed")
	groups := make(map[uint32]resource.BindGroup, len(p.bindGroups))
	for k, v := range p.bindGroups {
		groups[k] = v
	}
	p.Draws = append(p.Draws, Draw{
		Pipeline:      p.pipeline,
		BindGroups:    groups,
		VertexBuffer:  p.vertexBuffer,
		IndexBuffer:   p.indexBuffer,
		IndexFormat:   p.indexFormat,
		IndexCount:    indexCount,
		InstanceCount: instanceCount,
		FirstIndex:    firstIndex,
		BaseVertex:    baseVertex,
		FirstInstance: firstInstance,
	})
}
