package plugin

import "fmt"

// Outputs is a global map of OutputAdapter plugins.
// Each factory takes a storage location and a batch size.
var Outputs = map[string]func(path string, batch int) (OutputAdapter, error){
	"badger": func(path string, batch int) (OutputAdapter, error) {
		bo, err := NewBadgerOutput(path, batch)
		if err != nil {
			return nil, err
		}
		return bo, nil
	},
	"plot": func(path string, batch int) (OutputAdapter, error) {
		po, err := NewPlotOutput(path, batch)
		if err != nil {
			return nil, err
		}
		return po, nil
	},
}

func OutputLookup(name, path string, batch int) (OutputAdapter, error) {
	factory, ok := Outputs[name]
	if !ok {
		return nil, fmt.Errorf("unknown output: %s", name)
	}
	return factory(path, batch)
}
