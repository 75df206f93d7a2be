package checks

// Build verifies that the project compiles, lints clean, and that the
// production build produced its expected artifacts. All tool
// invocations are opaque commands judged only by exit code.
func Build(d Deps) []Check {
	return []Check{
		{Name: "TypeScript Compilation", Fn: commandCheck(d, d.Config.TypecheckCmd)},
		{Name: "Lint Clean", Fn: commandCheck(d, d.Config.LintCmd)},
		{Name: "Production Build", Fn: commandCheck(d, d.Config.BuildCmd)},
		{Name: "Build ID Artifact", Fn: fileCheck(d.Config.BuildIDFile)},
		{Name: "Static Assets Directory", Fn: dirCheck(d.Config.StaticDir)},
	}
}
