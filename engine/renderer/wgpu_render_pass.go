package renderer

import (
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/resource"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuRenderPass adapts a *wgpu.RenderPassEncoder to RenderPass.
// Handles must have been created by the WGPU backend.
type wgpuRenderPass struct {
	pass *wgpu.RenderPassEncoder
}

var _ RenderPass = &wgpuRenderPass{}

func (p *wgpuRenderPass) SetPipeline(rp resource.RenderPipeline) {
	p.pass.SetPipeline(rp.(*wgpu.RenderPipeline))
}

func (p *wgpuRenderPass) SetBindGroup(group uint32, bg resource.BindGroup) {
	p.pass.SetBindGroup(group, bg.(*wgpu.BindGroup), nil)
}

func (p *wgpuRenderPass) SetVertexBuffer(slot uint32, buf resource.Buffer) {
	p.pass.SetVertexBuffer(slot, buf.(*wgpu.Buffer), 0, wgpu.WholeSize)
}

func (p *wgpuRenderPass) SetIndexBuffer(buf resource.Buffer, format wgpu.IndexFormat) {
	p.pass.SetIndexBuffer(buf.(*wgpu.Buffer), format, 0, wgpu.WholeSize)
}

func (p *wgpuRenderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.pass.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}
