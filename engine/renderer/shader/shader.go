package shader

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrMissingEntryPoint is returned by NewShader when the source declares no @vertex or no @fragment function.
var ErrMissingEntryPoint = errors.New("shader: missing entry point")

// shaderImpl is the implementation of the Shader interface.
type shaderImpl struct {
	key    string
	source string

	vertexEntryPoint   string
	fragmentEntryPoint string

	vertexLayouts []wgpu.VertexBufferLayout
	bindGroups    map[int]wgpu.BindGroupLayoutDescriptor

	includes map[string]string
}

// Shader is a pre-processed WGSL render shader together with the layouts reflected from its source.
//
// The reflected data lets pipelines be built without restating the shader's interface by hand:
//   - VertexLayouts: one layout per vertex input struct (structs whose fields all carry @location)
//   - BindGroupLayoutDescriptor: one descriptor per @group index, entries sorted by binding, with the
//     visibility of each entry derived from which entry point references the variable
type Shader interface {
	// Key returns the unique identifier of the shader.
	//
	// Returns:
	//   - string: the shader key
	Key() string

	// Source returns the pre-processed WGSL source, with includes expanded.
	//
	// Returns:
	//   - string: the WGSL source code
	Source() string

	// VertexEntryPoint returns the name of the @vertex function.
	//
	// Returns:
	//   - string: the vertex entry point
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the @fragment function.
	//
	// Returns:
	//   - string: the fragment entry point
	FragmentEntryPoint() string

	// VertexLayouts returns the vertex buffer layouts in declaration order. Slot i uses layout i.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the reflected vertex layouts
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptor returns the reflected layout of one bind group.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
	//   - bool: false if the shader declares nothing at that group
	BindGroupLayoutDescriptor(group int) (wgpu.BindGroupLayoutDescriptor, bool)

	// Groups returns the declared @group indices in ascending order.
	//
	// Returns:
	//   - []int: the group indices
	Groups() []int
}

var _ Shader = &shaderImpl{}

// NewShader pre-processes and reflects a WGSL render shader.
//
// Parameters:
//   - key: the unique identifier of the shader, used for labels
//   - source: the raw WGSL source, possibly containing //#include lines
//   - options: functional options, typically WithInclude
//
// Returns:
//   - Shader: the reflected shader
//   - error: an error if an include is unknown or an entry point is missing
func NewShader(key, source string, options ...ShaderBuilderOption) (Shader, error) {
	s := &shaderImpl{
		key:      key,
		includes: make(map[string]string),
	}
	for _, opt := range options {
		opt(s)
	}

	processed, err := expandIncludes(source, s.includes)
	if err != nil {
		return nil, fmt.Errorf("shader %q: %w", key, err)
	}
	s.source = processed

	cleaned := stripComments(processed)
	s.vertexEntryPoint = findEntryPoint(cleaned, vertexEntryRegex)
	s.fragmentEntryPoint = findEntryPoint(cleaned, fragmentEntryRegex)
	if s.vertexEntryPoint == "" {
		return nil, fmt.Errorf("shader %q: %w: @vertex", key, ErrMissingEntryPoint)
	}
	if s.fragmentEntryPoint == "" {
		return nil, fmt.Errorf("shader %q: %w: @fragment", key, ErrMissingEntryPoint)
	}

	s.vertexLayouts = parseVertexLayouts(cleaned)
	s.bindGroups = parseBindGroupLayouts(key, cleaned, s.vertexEntryPoint, s.fragmentEntryPoint)
	return s, nil
}

func (s *shaderImpl) Key() string {
	return s.key
}

func (s *shaderImpl) Source() string {
	return s.source
}

func (s *shaderImpl) VertexEntryPoint() string {
	return s.vertexEntryPoint
}

func (s *shaderImpl) FragmentEntryPoint() string {
	return s.fragmentEntryPoint
}

func (s *shaderImpl) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shaderImpl) BindGroupLayoutDescriptor(group int) (wgpu.BindGroupLayoutDescriptor, bool) {
	desc, ok := s.bindGroups[group]
	return desc, ok
}

func (s *shaderImpl) Groups() []int {
	groups := make([]int, 0, len(s.bindGroups))
	for g := range s.bindGroups {
		groups = append(groups, g)
	}
	slices.Sort(groups)
	return groups
}
