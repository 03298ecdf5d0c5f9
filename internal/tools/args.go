package tools

// Args holds validated, type-coerced tool arguments
type Args map[string]any

// String returns a string argument, or "" if absent
func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Float returns a number argument, or 0 if absent
func (a Args) Float(name string) float64 {
	f, _ := a[name].(float64)
	return f
}

// Int returns an integer argument, or 0 if absent
func (a Args) Int(name string) int64 {
	i, _ := a[name].(int64)
	return i
}

// Bool returns a boolean argument, or false if absent
func (a Args) Bool(name string) bool {
	b, _ := a[name].(bool)
	return b
}

// Has reports whether the argument was supplied or defaulted
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}
