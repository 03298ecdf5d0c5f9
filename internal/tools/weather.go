package tools

import "context"

// NewFetchWeatherTool creates the mocked weather lookup. Every location is sunny.
func NewFetchWeatherTool() *FuncTool {
	return NewFuncTool(
		"fetch_weather",
		"Fetch the weather for a given location",
		[]Param{
			String("location", "The location to fetch the weather for"),
		},
		func(ctx context.Context, args Args) (string, error) {
			return "sunny", nil
		},
	)
}
