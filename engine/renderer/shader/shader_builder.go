package shader

// ShaderBuilderOption is a functional option applied to a shader during construction via NewShader.
type ShaderBuilderOption func(*shaderImpl)

// WithInclude registers WGSL source that replaces every "//#include <name>" line.
//
// Parameters:
//   - name: the include name
//   - source: the WGSL source to inject
//
// Returns:
//   - ShaderBuilderOption: a function that registers the include
func WithInclude(name, source string) ShaderBuilderOption {
	return func(s *shaderImpl) {
		s.includes[name] = source
	}
}
