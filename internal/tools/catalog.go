package tools

import (
	"fmt"
	"sort"
)

// FileTools returns the file classifier's tools
func FileTools() []Tool {
	return []Tool{
		NewListFilesTool(),
		NewReadFileHeadTool(),
		NewReadFullFileTool(),
		NewCreateDirectoryTool(),
		NewCopyFileTool(),
	}
}

// MathTools returns the four arithmetic tools
func MathTools() []Tool {
	return []Tool{NewAddTool(), NewSubTool(), NewMulTool(), NewDivTool()}
}

// WeatherTools returns the weather assistant's tools
func WeatherTools() []Tool {
	return []Tool{NewFetchWeatherTool()}
}

var catalog = map[string]func() Tool{
	"list_files":       func() Tool { return NewListFilesTool() },
	"read_file_head":   func() Tool { return NewReadFileHeadTool() },
	"read_full_file":   func() Tool { return NewReadFullFileTool() },
	"create_directory": func() Tool { return NewCreateDirectoryTool() },
	"copy_file":        func() Tool { return NewCopyFileTool() },
	"add":              func() Tool { return NewAddTool() },
	"sub":              func() Tool { return NewSubTool() },
	"mul":              func() Tool { return NewMulTool() },
	"div":              func() Tool { return NewDivTool() },
	"fetch_weather":    func() Tool { return NewFetchWeatherTool() },
}

// Builtin returns a fresh instance of the named built-in tool
func Builtin(name string) (Tool, error) {
	ctor, ok := catalog[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return ctor(), nil
}

// BuiltinNames returns the names of all built-in tools, sorted
func BuiltinNames() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegistryOf builds a registry holding the given tools
func RegistryOf(tools ...Tool) (*Registry, error) {
	r := NewRegistry()
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}
