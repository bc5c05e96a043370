package ports

// ToolsetResolver reconciles an explicitly requested tools version, a version
// sniffed from the project file and the caller's default into the version a
// build actually uses. Toolset lookup itself lives outside this core.
//
//go:generate mockgen -source=toolset.go -destination=mocks/mock_toolset.go -package=mocks
type ToolsetResolver interface {
	// Resolve picks the effective tools version. Any of the inputs may be
	// empty; an empty result is an error on the resolver's side.
	Resolve(explicit, sniffed, defaultVersion string) (string, error)
}
