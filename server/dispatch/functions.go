package dispatch

import (
	"github.com/botize/appserver/apps"
	"github.com/botize/appserver/utils"
)

// listFunctions enumerates the application's capability table. The order is
// the table's declaration order, stable across calls; the introspection
// protocol addresses entries by 1-based position in this slice.
func listFunctions(app apps.Application) []apps.Function {
	return app.Functions()
}

// resolveFunction finds a function by type and name.
func resolveFunction(app apps.Application, typ apps.FunctionType, name string) (apps.Function, error) {
	for _, f := range listFunctions(app) {
		if f.Type == typ && f.Name == name {
			return f, nil
		}
	}
	return apps.Function{}, utils.NewInvalidError("Unknown function '%s'", name)
}

// functionByIndex returns the index-th function, 1-based. Index lookups and
// name lookups agree: index i resolves to the i-th element of listFunctions.
func functionByIndex(app apps.Application, index int) (apps.Function, error) {
	functions := listFunctions(app)
	if index <= 0 || index > len(functions) {
		return apps.Function{}, utils.NewInvalidError("'fn' parameter is invalid")
	}
	return functions[index-1], nil
}
