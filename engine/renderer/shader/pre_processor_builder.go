package shader

type PreProcessorBuilderOption func(*preProcessor)

// WithStruct registers a WGSL struct under a key usable by include and group annotations.
//
// Parameters:
//   - key: the annotation key
//   - source: the WGSL struct definition
//   - typeName: the WGSL type name the source declares
//
// Returns:
//   - PreProcessorBuilderOption: a function that registers the struct
func WithStruct(key, source, typeName string) PreProcessorBuilderOption {
	return func(p *preProcessor) {
		p.structRegistry[key] = registryEntry{Source: source, Type: typeName}
	}
}
