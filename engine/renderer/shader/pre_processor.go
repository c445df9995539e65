package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/genesis/engine/camera"
)

// StructCamera is the registry key of the camera uniform struct.
const StructCamera = "camera"

// registryEntry pairs a WGSL struct source with the WGSL type name it declares.
type registryEntry struct {
	Source string
	Type   string
}

type preProcessor struct {
	structRegistry map[string]registryEntry
	declarations   []Annotation
}

// PreProcessor expands @genesis: annotations in WGSL source.
// Include annotations are replaced with the registered struct source and group annotations with a
// generated @group/@binding declaration, which is also recorded in Declarations.
type PreProcessor interface {
	// Process expands every annotation in source. The declarations list is reset on each call.
	//
	// Parameters:
	//   - source: raw WGSL source
	//
	// Returns:
	//   - string: the expanded WGSL source
	//   - error: an error if an annotation is malformed or references an unregistered struct
	Process(source string) (string, error)

	// Declarations returns the group annotations found by the most recent Process call, in source order.
	//
	// Returns:
	//   - []Annotation: the collected declarations
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a pre-processor with the camera uniform registered.
//
// Parameters:
//   - options: functional options registering additional structs
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor(options ...PreProcessorBuilderOption) PreProcessor {
	p := &preProcessor{
		structRegistry: map[string]registryEntry{
			StructCamera: {Source: camera.GPUCameraUniformSource, Type: "CameraUniform"},
		},
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		entry, ok := p.structRegistry[a.Key]
		if !ok {
			return "", fmt.Errorf("line %d: unknown struct %q", a.Line, a.Key)
		}

		switch a.Type {
		case AnnotationTypeInclude:
			out = append(out, entry.Source)
		case AnnotationTypeBindingGroup:
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;",
				a.Group, a.Binding, addressSpaceSyntax[a.AddressSpace], a.VarName, entry.Type))
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
