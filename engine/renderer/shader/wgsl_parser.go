package shader

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// includePrefix starts a line that is replaced by registered WGSL source.
const includePrefix = "//#include "

// vertexFormatInfo holds the wgpu vertex format and its byte size for offset calculation
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// wgslTypeLayout holds the byte size and alignment of a host-shareable WGSL type.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField represents a single field extracted from a WGSL struct during parsing
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct represents a WGSL struct block extracted during parsing
type parsedStruct struct {
	name   string
	fields []parsedField
}

// wgslVertexFormatMap maps WGSL type names to their corresponding wgpu vertex format and byte size
var wgslVertexFormatMap = map[string]vertexFormatInfo{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
	"i32":       {wgpu.VertexFormatSint32, 4},
}

// wgslTypeLayoutMap holds size and alignment of the scalar, vector and matrix types uniforms use
var wgslTypeLayoutMap = map[string]wgslTypeLayout{
	"f32":         {4, 4},
	"i32":         {4, 4},
	"u32":         {4, 4},
	"vec2f":       {8, 8},
	"vec2<f32>":   {8, 8},
	"vec3f":       {12, 16},
	"vec3<f32>":   {12, 16},
	"vec4f":       {16, 16},
	"vec4<f32>":   {16, 16},
	"mat3x3f":     {48, 16},
	"mat3x3<f32>": {48, 16},
	"mat4x4f":     {64, 16},
	"mat4x4<f32>": {64, 16},
}

// wgslSampledTextureMap maps WGSL sampled texture base names to their view dimension
var wgslSampledTextureMap = map[string]wgpu.TextureViewDimension{
	"texture_2d":       wgpu.TextureViewDimension2D,
	"texture_2d_array": wgpu.TextureViewDimension2DArray,
	"texture_3d":       wgpu.TextureViewDimension3D,
	"texture_cube":     wgpu.TextureViewDimensionCube,
}

// wgslSampleTypeMap maps WGSL scalar type parameters to their wgpu texture sample type
var wgslSampleTypeMap = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

var (
	// blockCommentRegex matches /* ... */ comments
	blockCommentRegex = regexp.MustCompile(`(?s)/\*.*?\*/`)

	// lineCommentRegex matches // comments up to the end of the line
	lineCommentRegex = regexp.MustCompile(`//[^\n]*`)

	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// locationRegex matches @location(N) attributes
	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)

	// builtinRegex matches @builtin(...) attributes
	builtinRegex = regexp.MustCompile(`@builtin\(\w+\)`)

	// fieldRegex matches a struct field: optional attributes, name, colon, type
	fieldRegex = regexp.MustCompile(`^(?:@\w+\([^)]*\)\s*)*(\w+)\s*:\s*(.+)$`)

	// vertexEntryRegex matches @vertex functions and captures the entry point name
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex matches @fragment functions and captures the entry point name
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name, and type
	// from declarations like: @group(0) @binding(0) var<uniform> camera: CameraUniform;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// expandIncludes replaces every //#include line with the registered source.
//
// Parameters:
//   - source: the raw WGSL source
//   - includes: the registered include sources keyed by name
//
// Returns:
//   - string: the expanded source
//   - error: an error naming the line of an unknown include
func expandIncludes(source string, includes map[string]string) (string, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		name, ok := strings.CutPrefix(strings.TrimSpace(line), includePrefix)
		if !ok {
			out = append(out, line)
			continue
		}
		name = strings.TrimSpace(name)
		inc, ok := includes[name]
		if !ok {
			return "", fmt.Errorf("line %d: unknown include %q", i+1, name)
		}
		out = append(out, inc)
	}
	return strings.Join(out, "\n"), nil
}

// stripComments removes block and line comments.
func stripComments(source string) string {
	return lineCommentRegex.ReplaceAllString(blockCommentRegex.ReplaceAllString(source, ""), "")
}

// findEntryPoint returns the first function name captured by re, or "".
func findEntryPoint(source string, re *regexp.Regexp) string {
	m := re.FindStringSubmatch(source)
	if m == nil {
		return ""
	}
	return m[1]
}

// splitAtTopLevelCommas splits s at commas that are not nested inside angle brackets,
// so types like array<T, N> stay in one piece.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// parseStructBlocks extracts every struct declaration in source order.
//
// Parameters:
//   - source: comment-free WGSL source
//
// Returns:
//   - []parsedStruct: the parsed structs
func parseStructBlocks(source string) []parsedStruct {
	var structs []parsedStruct
	for _, m := range structBlockRegex.FindAllStringSubmatch(source, -1) {
		ps := parsedStruct{name: m[1]}
		for _, raw := range splitAtTopLevelCommas(m[2]) {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			fm := fieldRegex.FindStringSubmatch(raw)
			if fm == nil {
				continue
			}
			f := parsedField{
				name:      fm[1],
				typeName:  strings.TrimSpace(fm[2]),
				location:  -1,
				isBuiltin: builtinRegex.MatchString(raw),
			}
			if lm := locationRegex.FindStringSubmatch(raw); lm != nil {
				f.location, _ = strconv.Atoi(lm[1])
			}
			ps.fields = append(ps.fields, f)
		}
		structs = append(structs, ps)
	}
	return structs
}

// isVertexInputStruct reports whether every field of ps carries @location and none is a builtin.
func isVertexInputStruct(ps parsedStruct) bool {
	if len(ps.fields) == 0 {
		return false
	}
	for _, f := range ps.fields {
		if f.isBuiltin || f.location < 0 {
			return false
		}
	}
	return true
}

// buildVertexBufferLayout packs the fields of a vertex input struct tightly in declaration order.
//
// Parameters:
//   - ps: a vertex input struct
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout
//   - bool: false if a field type has no vertex format
func buildVertexBufferLayout(ps parsedStruct) (wgpu.VertexBufferLayout, bool) {
	attrs := make([]wgpu.VertexAttribute, 0, len(ps.fields))
	var offset uint64
	for _, f := range ps.fields {
		info, ok := wgslVertexFormatMap[f.typeName]
		if !ok {
			return wgpu.VertexBufferLayout{}, false
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         info.format,
			Offset:         offset,
			ShaderLocation: uint32(f.location),
		})
		offset += info.size
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}, true
}

// parseVertexLayouts returns one layout per vertex input struct, in declaration order.
func parseVertexLayouts(source string) []wgpu.VertexBufferLayout {
	var layouts []wgpu.VertexBufferLayout
	for _, ps := range parseStructBlocks(source) {
		if !isVertexInputStruct(ps) {
			continue
		}
		if layout, ok := buildVertexBufferLayout(ps); ok {
			layouts = append(layouts, layout)
		}
	}
	return layouts
}

// structLayouts computes size and alignment of every struct built from known types.
func structLayouts(structs []parsedStruct) map[string]wgslTypeLayout {
	out := make(map[string]wgslTypeLayout)
	for _, ps := range structs {
		var offset, align uint64 = 0, 1
		ok := true
		for _, f := range ps.fields {
			l, known := wgslTypeLayoutMap[f.typeName]
			if !known {
				l, known = out[f.typeName]
			}
			if !known {
				ok = false
				break
			}
			offset = roundUp(offset, l.align) + l.size
			align = max(align, l.align)
		}
		if ok {
			out[ps.name] = wgslTypeLayout{size: roundUp(offset, align), align: align}
		}
	}
	return out
}

func roundUp(v, align uint64) uint64 {
	return (v + align - 1) / align * align
}

// functionBody returns the text between the braces of the named function, or "".
func functionBody(source, name string) string {
	re := regexp.MustCompile(`\bfn\s+` + regexp.QuoteMeta(name) + `\s*\(`)
	loc := re.FindStringIndex(source)
	if loc == nil {
		return ""
	}
	open := strings.IndexByte(source[loc[1]:], '{')
	if open < 0 {
		return ""
	}
	start := loc[1] + open
	depth := 0
	for i := start; i < len(source); i++ {
		switch source[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return source[start+1 : i]
			}
		}
	}
	return source[start+1:]
}

// parseBindGroupLayouts reflects every @group/@binding declaration into layout descriptors.
// An entry is visible to a stage when that stage's entry point references the variable. Variables
// referenced by neither entry point (for example only through helper functions) are visible to both.
//
// Parameters:
//   - key: the shader key, used for labels
//   - source: comment-free WGSL source
//   - vertexEntry, fragmentEntry: the entry point names
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
func parseBindGroupLayouts(key, source, vertexEntry, fragmentEntry string) map[int]wgpu.BindGroupLayoutDescriptor {
	layouts := structLayouts(parseStructBlocks(source))
	vsBody := functionBody(source, vertexEntry)
	fsBody := functionBody(source, fragmentEntry)

	groups := make(map[int][]wgpu.BindGroupLayoutEntry)
	for _, m := range bindGroupDeclRegex.FindAllStringSubmatch(source, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		addressSpace := strings.TrimSpace(m[3])
		varName := m[4]
		typeName := strings.TrimSpace(m[5])

		ref := regexp.MustCompile(`\b` + regexp.QuoteMeta(varName) + `\b`)
		var visibility wgpu.ShaderStage
		if ref.MatchString(vsBody) {
			visibility |= wgpu.ShaderStageVertex
		}
		if ref.MatchString(fsBody) {
			visibility |= wgpu.ShaderStageFragment
		}
		if visibility == 0 {
			visibility = wgpu.ShaderStageVertex | wgpu.ShaderStageFragment
		}

		entry := classifyResource(uint32(binding), visibility, addressSpace, typeName)
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if l, ok := layouts[typeName]; ok {
				entry.Buffer.MinBindingSize = l.size
			} else if l, ok := wgslTypeLayoutMap[typeName]; ok {
				entry.Buffer.MinBindingSize = l.size
			}
		}
		groups[group] = append(groups[group], entry)
	}

	out := make(map[int]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g, entries := range groups {
		slices.SortFunc(entries, func(a, b wgpu.BindGroupLayoutEntry) int {
			return int(a.Binding) - int(b.Binding)
		})
		out[g] = wgpu.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("%s_group_%d_layout", key, g),
			Entries: entries,
		}
	}
	return out
}

// classifyResource builds the layout entry for one declaration from its address space or handle type.
func classifyResource(binding uint32, visibility wgpu.ShaderStage, addressSpace, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
	}

	switch {
	case addressSpace == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(addressSpace, "storage"):
		if strings.Contains(addressSpace, "read_write") {
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		} else {
			entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		}
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case typeName == "sampler_comparison":
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	case strings.HasPrefix(typeName, "texture_"):
		base, param, _ := strings.Cut(typeName, "<")
		param = strings.TrimSuffix(param, ">")
		if dim, ok := wgslSampledTextureMap[base]; ok {
			entry.Texture.ViewDimension = dim
		}
		if st, ok := wgslSampleTypeMap[strings.TrimSpace(param)]; ok {
			entry.Texture.SampleType = st
		}
	}

	return entry
}
