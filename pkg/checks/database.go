package checks

import (
	"context"
	"fmt"
	"os"
)

// Database verifies the schema tooling: the connection string is
// present and the schema validation and client generation commands
// both succeed. The database itself is never touched directly; the
// tools own that contract.
func Database(d Deps) []Check {
	return []Check{
		{Name: "Database URL Present", Fn: envPresentCheck(d.Config.DatabaseURLVar)},
		{Name: "Schema Valid", Fn: commandCheck(d, d.Config.SchemaCmd)},
		{Name: "Client Generated", Fn: commandCheck(d, d.Config.ClientGenCmd)},
	}
}

func envPresentCheck(name string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if os.Getenv(name) == "" {
			return fmt.Errorf("%s is not set", name)
		}
		return nil
	}
}
