package trace

// Shape is the layout of one top-level function branch of a trace document.
type Shape int

const (
	// ShapeUnrecognized is any branch the parser cannot interpret.
	ShapeUnrecognized Shape = iota
	// ShapeTwoLevel maps scope -> instance -> details.
	ShapeTwoLevel
	// ShapeFlat maps instance -> details, every details object carrying invocations.
	ShapeFlat
)

// String returns the display name of the shape.
func (s Shape) String() string {
	switch s {
	case ShapeTwoLevel:
		return "two-level"
	case ShapeFlat:
		return "flat"
	default:
		return "unrecognized"
	}
}

// Classify inspects a function branch and reports its shape.
// Flat is checked first; an empty object is vacuously flat.
func Classify(value any) Shape {
	branch, ok := value.(map[string]any)
	if !ok {
		return ShapeUnrecognized
	}
	if isFlat(branch) {
		return ShapeFlat
	}
	if isTwoLevel(branch) {
		return ShapeTwoLevel
	}
	return ShapeUnrecognized
}

func isFlat(branch map[string]any) bool {
	for _, v := range branch {
		details, ok := v.(map[string]any)
		if !ok {
			return false
		}
		raw, ok := details[invocationsKey]
		if !ok {
			return false
		}
		if _, ok := raw.([]any); !ok {
			return false
		}
	}
	return true
}

func isTwoLevel(branch map[string]any) bool {
	for _, v := range branch {
		instances, ok := v.(map[string]any)
		if !ok {
			return false
		}
		for _, d := range instances {
			details, ok := d.(map[string]any)
			if !ok {
				return false
			}
			if raw, ok := details[invocationsKey]; ok {
				if _, ok := raw.([]any); !ok {
					return false
				}
			}
		}
	}
	return true
}
