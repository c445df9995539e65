// annotations.go defines the WGSL annotations understood by the shader pre-processor.
// Annotations are single-line WGSL comments prefixed with @genesis: that inject shared
// struct sources and generate bind group declarations, so the Go GPU types and the shaders
// share one definition of every uniform and vertex struct.
package shader

import (
	"fmt"
	"strconv"
	"strings"
)

// annotationPrefix marks an annotation inside a WGSL comment line.
const annotationPrefix = "@genesis:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// AnnotationTypeInclude injects the WGSL source of a registered struct.
	//
	// Syntax: //@genesis:include <struct_key>
	//
	// Example: //@genesis:include camera
	AnnotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a @group/@binding variable declaration for a registered struct.
	//
	// Syntax: //@genesis:group <group> <binding> <address_space> <var_name> <struct_key>
	//
	// Example: //@genesis:group 0 0 uniform camera camera
	AnnotationTypeBindingGroup AnnotationType = "group"
)

// AddressSpace is the address space argument of a group annotation.
type AddressSpace string

const (
	AddressSpaceUniform     AddressSpace = "uniform"
	AddressSpaceStorageRead AddressSpace = "storage_read"
)

var addressSpaceSyntax = map[AddressSpace]string{
	AddressSpaceUniform:     "var<uniform>",
	AddressSpaceStorageRead: "var<storage, read>",
}

// Annotation is a single parsed annotation.
type Annotation struct {
	Type AnnotationType

	// Key is the registered struct key the annotation refers to.
	Key string

	// Line is the 1-based source line the annotation was found on.
	Line int

	// The following fields are only set for group annotations.

	Group        int
	Binding      int
	AddressSpace AddressSpace
	VarName      string
}

// parseAnnotation parses a single line. Lines without the annotation prefix return nil and no error.
//
// Parameters:
//   - line: the raw source line
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case AnnotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: include annotation requires exactly one argument", lineNum)
		}
		return &Annotation{Type: AnnotationTypeInclude, Key: args[1], Line: lineNum}, nil
	case AnnotationTypeBindingGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: group annotation requires five arguments (group, binding, address space, name, struct)", lineNum)
		}
		group, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid group number %q: %w", lineNum, args[1], err)
		}
		binding, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid binding number %q: %w", lineNum, args[2], err)
		}
		space := AddressSpace(args[3])
		if _, ok := addressSpaceSyntax[space]; !ok {
			return nil, fmt.Errorf("line %d: unknown address space %q", lineNum, args[3])
		}
		return &Annotation{
			Type:         AnnotationTypeBindingGroup,
			Key:          args[5],
			Line:         lineNum,
			Group:        group,
			Binding:      binding,
			AddressSpace: space,
			VarName:      args[4],
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown annotation type %q", lineNum, args[0])
	}
}
