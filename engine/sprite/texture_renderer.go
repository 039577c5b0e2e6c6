package sprite

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-sprite/common"
	"github.com/Carmen-Shannon/oxy-sprite/engine/camera"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/resource"
	"github.com/Carmen-Shannon/oxy-sprite/engine/renderer/shader"

	"github.com/cogentcore/webgpu/wgpu"
)

// MaxQuadsPerBatch is the largest number of quads one draw call can address with 16-bit indices.
const MaxQuadsPerBatch = 65536 / 4

// textureBindGroup is the bind group index of the texture and sampler in the texture shader.
const textureBindGroup = 1

// ErrVertexLayoutMismatch is returned by NewTextureRenderer when the shader's vertex input does not match TextureVertex.
var ErrVertexLayoutMismatch = errors.New("sprite: shader vertex input does not match TextureVertex")

// GroupingMode selects how a frame's draw operations are split into batches.
type GroupingMode int

const (
	// GroupByIndex puts every operation with the same Index into one batch drawn with the texture of the
	// first operation in that group.
	GroupByIndex GroupingMode = iota
	// GroupByIndexAndTexture additionally splits an Index group by texture, in first-seen order.
	GroupByIndexAndTexture
)

// String returns the name of the grouping mode.
func (m GroupingMode) String() string {
	switch m {
	case GroupByIndex:
		return "index"
	case GroupByIndexAndTexture:
		return "index+texture"
	default:
		return fmt.Sprintf("GroupingMode(%d)", int(m))
	}
}

// Camera is what the TextureRenderer needs from a camera: its bind group layout to build the pipeline layout
// and its bind group provider to bind group 0 while drawing.
type Camera interface {
	BindGroupLayout() resource.BindGroupLayout
	BindGroupProvider() bind_group_provider.BindGroupProvider
}

// Stats summarizes the most recent Render call.
type Stats struct {
	// Operations is the number of draw operations submitted.
	Operations int
	// Skipped is the number of operations dropped because their texture was released.
	Skipped int
	// Batches is the number of vertex/index buffer pairs built.
	Batches int
	// DrawCalls is the number of DrawIndexed commands recorded.
	DrawCalls int
	// Vertices is the total vertex count uploaded.
	Vertices int
	// Indices is the total index count drawn.
	Indices int
}

// batch is one draw call's worth of geometry. The provider owns the vertex and index buffers,
// and texture holds a reference until the batch is released.
type batch struct {
	provider bind_group_provider.BindGroupProvider
	texture  *Texture
	indices  []uint16
}

func (b *batch) release() {
	b.provider.Release()
	b.texture.Release()
}

// opGroup is a run of operations drawn with one texture at one depth.
type opGroup struct {
	index   int32
	texture *Texture
	ops     []DrawTextureOperation
}

// textureRenderer is the implementation of the TextureRenderer interface.
type textureRenderer struct {
	mu sync.Mutex

	label  string
	device renderer.Device

	shader         shader.Shader
	shaderModule   resource.ShaderModule
	sampler        resource.Sampler
	samplerData    common.SamplerStagingData
	textureLayout  resource.BindGroupLayout
	pipelineLayout resource.PipelineLayout
	pipelines      map[string]pipeline.Pipeline

	groupingMode     GroupingMode
	maxQuadsPerBatch int
	cullMode         wgpu.CullMode

	scratch  []*batch
	stats    Stats
	released bool
}

// TextureRenderer batches textured quad draw operations into as few draw calls as possible and records them
// into a render pass. It also creates Textures, sharing one sampler, bind group layout and pipeline among them.
type TextureRenderer interface {
	TextureFactory

	// Render groups operations by Index, uploads one vertex and index buffer per batch and records one
	// indexed draw per batch in ascending Index order. The previous frame's buffers and texture references
	// are released first, so buffers recorded into a pass stay alive until the next Render.
	// Operations whose texture has been released are skipped.
	// Panics if a vertex or index buffer cannot be created.
	//
	// Parameters:
	//   - pass: the render pass to record into
	//   - cam: the camera bound at group 0
	//   - operations: the frame's draw operations, in any order
	Render(pass renderer.RenderPass, cam Camera, operations []DrawTextureOperation)

	// Stats returns the summary of the most recent Render call.
	//
	// Returns:
	//   - Stats: operation, batch and geometry counts
	Stats() Stats

	// GroupingMode returns the batching mode.
	GroupingMode() GroupingMode

	// Shader returns the parsed texture shader.
	Shader() shader.Shader

	// Release frees the per-frame buffers, pipelines, layouts, sampler and shader module.
	// Textures created by the renderer must be released by their owners.
	Release()
}

var _ TextureRenderer = &textureRenderer{}

// NewTextureRenderer compiles the texture shader and creates the GPU objects shared by every texture.
// The camera must already be initialized so its bind group layout exists.
//
// Parameters:
//   - device: the device used to create GPU resources
//   - cam: the camera whose bind group layout forms group 0 of the pipeline layout
//   - options: a variadic list of TextureRendererBuilderOption functions
//
// Returns:
//   - TextureRenderer: the renderer
//   - error: error if the camera is not initialized or a GPU object cannot be created
func NewTextureRenderer(device renderer.Device, cam Camera, options ...TextureRendererBuilderOption) (TextureRenderer, error) {
	r := &textureRenderer{
		label:            "texture",
		device:           device,
		pipelines:        make(map[string]pipeline.Pipeline),
		groupingMode:     GroupByIndex,
		maxQuadsPerBatch: MaxQuadsPerBatch,
		cullMode:         wgpu.CullModeBack,
		samplerData: common.SamplerStagingData{
			AddressModeU: wgpu.AddressModeClampToEdge,
			AddressModeV: wgpu.AddressModeClampToEdge,
			AddressModeW: wgpu.AddressModeClampToEdge,
			MagFilter:    wgpu.FilterModeNearest,
			MinFilter:    wgpu.FilterModeNearest,
			MipmapFilter: wgpu.MipmapFilterModeNearest,
		},
	}
	for _, option := range options {
		option(r)
	}

	if cam == nil || cam.BindGroupLayout() == nil {
		return nil, camera.ErrNotInitialized
	}

	sh, err := shader.NewShader(r.label, textureShaderSource, shader.WithInclude("camera", camera.GPUCameraUniformSource))
	if err != nil {
		return nil, fmt.Errorf("failed to parse texture shader: %w", err)
	}
	if err := checkVertexLayouts(sh.VertexLayouts()); err != nil {
		return nil, err
	}
	r.shader = sh

	desc, ok := sh.BindGroupLayoutDescriptor(textureBindGroup)
	if !ok {
		return nil, fmt.Errorf("texture shader declares no bind group %d", textureBindGroup)
	}

	if err := r.init(cam, desc); err != nil {
		r.releaseShared()
		return nil, err
	}
	return r, nil
}

// checkVertexLayouts verifies that the shader reads exactly one vertex buffer laid out as TextureVertex.
func checkVertexLayouts(layouts []wgpu.VertexBufferLayout) error {
	want := TextureVertexLayout()
	if len(layouts) != 1 {
		return fmt.Errorf("%w: %d vertex buffers", ErrVertexLayoutMismatch, len(layouts))
	}
	got := layouts[0]
	if got.ArrayStride != want.ArrayStride || got.StepMode != want.StepMode || !slices.Equal(got.Attributes, want.Attributes) {
		return fmt.Errorf("%w: stride %d, attributes %v", ErrVertexLayoutMismatch, got.ArrayStride, got.Attributes)
	}
	return nil
}

func (r *textureRenderer) init(cam Camera, textureLayout wgpu.BindGroupLayoutDescriptor) error {
	var err error
	if r.shaderModule, err = r.device.CreateShaderModule(r.label+" Shader", r.shader.Source()); err != nil {
		return fmt.Errorf("failed to create texture shader module: %w", err)
	}
	if r.sampler, err = r.device.CreateSampler(r.label+" Sampler", r.samplerData); err != nil {
		return fmt.Errorf("failed to create texture sampler: %w", err)
	}
	if r.textureLayout, err = r.device.CreateBindGroupLayout(textureLayout); err != nil {
		return fmt.Errorf("failed to create texture bind group layout: %w", err)
	}
	if r.pipelineLayout, err = r.device.CreatePipelineLayout(r.label+" Render Pipeline Layout", cam.BindGroupLayout(), r.textureLayout); err != nil {
		return fmt.Errorf("failed to create texture pipeline layout: %w", err)
	}
	return nil
}

func (r *textureRenderer) NewTexture(rgba []byte, size common.Size) (*Texture, error) {
	if size.Width == 0 || size.Height == 0 {
		return nil, fmt.Errorf("%w: zero dimension %dx%d", ErrInvalidImageData, size.Width, size.Height)
	}
	if len(rgba) != size.Area()*4 {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %dx%d", ErrInvalidImageData, len(rgba), size.Area()*4, size.Width, size.Height)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return nil, errors.New("texture renderer has been released")
	}

	p, err := r.pipelineFor()
	if err != nil {
		return nil, err
	}

	label := fmt.Sprintf("%s_%d", r.label, textureCount.Load())
	tex, view, err := r.device.CreateTexture(label, common.TextureStagingData{Pixels: rgba, Width: size.Width, Height: size.Height})
	if err != nil {
		return nil, fmt.Errorf("failed to create texture: %w", err)
	}

	provider := bind_group_provider.NewBindGroupProvider(label)
	provider.SetTexture(0, tex)
	provider.SetTextureView(0, view)

	bg, err := r.device.CreateBindGroup(label+" Bind Group", r.textureLayout, []resource.BindGroupEntry{
		{Binding: 0, TextureView: view},
		{Binding: 1, Sampler: r.sampler},
	})
	if err != nil {
		provider.Release()
		return nil, fmt.Errorf("failed to create texture bind group: %w", err)
	}
	provider.SetBindGroup(bg)

	t := newTexture(size, p, provider)
	common.Logger().Debug("created texture", "id", t.ID(), "width", size.Width, "height", size.Height)
	return t, nil
}

// pipelineFor returns the cached pipeline for the current configuration, creating it on first use.
// Callers must hold r.mu.
func (r *textureRenderer) pipelineFor() (pipeline.Pipeline, error) {
	key := fmt.Sprintf("%s|color=%d|depth=%d|cull=%d|blend=alpha|compare=%d",
		r.label, r.device.SurfaceFormat(), r.device.DepthFormat(), r.cullMode, wgpu.CompareFunctionGreaterEqual)
	if p, ok := r.pipelines[key]; ok {
		return p, nil
	}

	p := pipeline.NewPipeline(key,
		pipeline.WithShaderModule(r.shaderModule, r.shader.VertexEntryPoint(), r.shader.FragmentEntryPoint()),
		pipeline.WithLayout(r.pipelineLayout),
		pipeline.WithVertexLayouts(TextureVertexLayout()),
		pipeline.WithTopology(wgpu.PrimitiveTopologyTriangleList),
		pipeline.WithFrontFace(wgpu.FrontFaceCCW),
		pipeline.WithCullMode(r.cullMode),
		pipeline.WithBlendEnabled(true),
		pipeline.WithBlendState(&pipeline.AlphaBlending),
		pipeline.WithDepthTestEnabled(true),
		pipeline.WithDepthWriteEnabled(true),
		pipeline.WithDepthCompare(wgpu.CompareFunctionGreaterEqual),
	)
	if err := r.device.CreateRenderPipeline(p); err != nil {
		return nil, fmt.Errorf("failed to create texture render pipeline: %w", err)
	}
	r.pipelines[key] = p
	common.Logger().Debug("created texture pipeline", "key", key)
	return p, nil
}

func (r *textureRenderer) Render(pass renderer.RenderPass, cam Camera, operations []DrawTextureOperation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		r.stats = Stats{Operations: len(operations), Skipped: len(operations)}
		if len(operations) > 0 {
			common.Logger().Warn("render on released texture renderer", "skipped", len(operations))
		}
		return
	}

	r.releaseScratch()
	r.stats = Stats{Operations: len(operations)}

	live := make([]DrawTextureOperation, 0, len(operations))
	for _, op := range operations {
		if op.Texture == nil || op.Texture.Released() {
			r.stats.Skipped++
			continue
		}
		live = append(live, op)
	}
	if r.stats.Skipped > 0 {
		common.Logger().Warn("skipped draw operations with released textures", "skipped", r.stats.Skipped)
	}

	for _, g := range r.group(live) {
		for start := 0; start < len(g.ops); start += r.maxQuadsPerBatch {
			end := min(start+r.maxQuadsPerBatch, len(g.ops))
			if b := r.buildBatch(g.index, g.texture, g.ops[start:end]); b != nil {
				r.scratch = append(r.scratch, b)
			}
		}
	}

	cameraGroup := cam.BindGroupProvider().BindGroup()
	for _, b := range r.scratch {
		pass.SetPipeline(b.texture.Pipeline().RenderPipeline())
		pass.SetBindGroup(0, cameraGroup)
		pass.SetBindGroup(textureBindGroup, b.texture.BindGroup())
		pass.SetVertexBuffer(0, b.provider.VertexBuffer())
		pass.SetIndexBuffer(b.provider.IndexBuffer(), wgpu.IndexFormatUint16)
		pass.DrawIndexed(uint32(len(b.indices)), 1, 0, 0, 0)

		r.stats.DrawCalls++
		r.stats.Vertices += len(b.indices) / 6 * 4
		r.stats.Indices += len(b.indices)
	}
	r.stats.Batches = len(r.scratch)

	common.Logger().Debug("rendered textures", "operations", r.stats.Operations, "batches", r.stats.Batches)
}

// group buckets operations by Index in ascending order. Within an Index the original submission order is kept.
func (r *textureRenderer) group(operations []DrawTextureOperation) []opGroup {
	byIndex := make(map[int32][]DrawTextureOperation)
	for _, op := range operations {
		byIndex[op.Index] = append(byIndex[op.Index], op)
	}

	var groups []opGroup
	for _, index := range slices.Sorted(maps.Keys(byIndex)) {
		ops := byIndex[index]
		if r.groupingMode != GroupByIndexAndTexture {
			groups = append(groups, opGroup{index: index, texture: ops[0].Texture, ops: ops})
			continue
		}

		var order []TextureID
		byTexture := make(map[TextureID]*opGroup)
		for _, op := range ops {
			g, ok := byTexture[op.Texture.ID()]
			if !ok {
				g = &opGroup{index: index, texture: op.Texture}
				byTexture[op.Texture.ID()] = g
				order = append(order, op.Texture.ID())
			}
			g.ops = append(g.ops, op)
		}
		for _, id := range order {
			groups = append(groups, *byTexture[id])
		}
	}
	return groups
}

// buildBatch emits the quads of ops at the depth of index and uploads them.
// Returns nil if the texture was released concurrently and no reference could be taken.
func (r *textureRenderer) buildBatch(index int32, texture *Texture, ops []DrawTextureOperation) *batch {
	if !texture.Retain() {
		return nil
	}

	depth := Depth(index)
	vertices := make([]TextureVertex, 0, len(ops)*4)
	indices := make([]uint16, 0, len(ops)*6)
	for i, op := range ops {
		d, t := op.Destination, op.TexCoords
		vertices = append(vertices,
			TextureVertex{Position: [3]float32{d.Left, d.Top, depth}, TexCoords: [2]float32{t.Left, t.Top}},
			TextureVertex{Position: [3]float32{d.Left, d.Bottom, depth}, TexCoords: [2]float32{t.Left, t.Bottom}},
			TextureVertex{Position: [3]float32{d.Right, d.Bottom, depth}, TexCoords: [2]float32{t.Right, t.Bottom}},
			TextureVertex{Position: [3]float32{d.Right, d.Top, depth}, TexCoords: [2]float32{t.Right, t.Top}},
		)
		step := uint16(i * 4)
		indices = append(indices, step, step+1, step+2, step+2, step+3, step)
	}

	vb, err := r.device.CreateBufferInit(r.label+" Vertex Buffer", MarshalVertices(vertices), wgpu.BufferUsageVertex)
	if err != nil {
		texture.Release()
		panic(fmt.Errorf("failed to create texture vertex buffer: %w", err))
	}
	ib, err := r.device.CreateBufferInit(r.label+" Index Buffer", MarshalIndices(indices), wgpu.BufferUsageIndex)
	if err != nil {
		vb.Release()
		texture.Release()
		panic(fmt.Errorf("failed to create texture index buffer: %w", err))
	}

	provider := bind_group_provider.NewBindGroupProvider(
		fmt.Sprintf("%s_batch_%d", r.label, index),
		bind_group_provider.WithGeometry(vb, ib, len(indices)),
	)
	return &batch{provider: provider, texture: texture, indices: indices}
}

// releaseScratch frees the previous frame's batches. Callers must hold r.mu.
func (r *textureRenderer) releaseScratch() {
	for _, b := range r.scratch {
		b.release()
	}
	r.scratch = r.scratch[:0]
}

func (r *textureRenderer) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *textureRenderer) GroupingMode() GroupingMode {
	return r.groupingMode
}

func (r *textureRenderer) Shader() shader.Shader {
	return r.shader
}

func (r *textureRenderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.released = true
	r.releaseScratch()
	for key, p := range r.pipelines {
		p.Release()
		delete(r.pipelines, key)
	}
	r.releaseShared()
}

func (r *textureRenderer) releaseShared() {
	resource.Release(r.pipelineLayout, r.textureLayout, r.sampler, r.shaderModule)
	r.pipelineLayout, r.textureLayout, r.sampler, r.shaderModule = nil, nil, nil, nil
}
