package record

// Filter is a trusted SQL boolean expression with positional "?" parameters.
// The condition is interpolated into SQL text; only Params are bound.
type Filter struct {
	Condition string
	Params    []Value
}

// Where builds a Filter.
func Where(condition string, params ...Value) Filter {
	return Filter{Condition: condition, Params: params}
}

// IsEmpty reports whether the filter selects every row.
func (f Filter) IsEmpty() bool {
	return f.Condition == ""
}

// Args returns the parameters as driver arguments.
func (f Filter) Args() []any {
	args := make([]any, len(f.Params))
	for i, p := range f.Params {
		args[i] = p.Any()
	}
	return args
}
