// Package registry provides the in-memory component registry built on top of a
// superconfig document.
//
// Components are grouped by category but their names are unique across the whole
// registry, so a component can always be addressed by name alone. Components added
// without a category live under config.Uncategorized; Lookup reports that category
// as the empty string.
//
// # Core Operations
//
//   - Add, Put and Remove mutate the underlying document
//   - Lookup, Names, Categories and Len query it
//   - List returns entries ordered by category then name, optionally filtered
//   - Search and FuzzySearch find names similar to a query
//
// # Install Paths
//
// A component is installed to <defaultpath>[/<category>]/<name> unless it records a
// custompath. NewComponent applies the rule that decides when the resolved install
// path has to be stored:
//
//	path := reg.TargetPath("impacket", registry.Placement{Category: "recon", Subfolder: true})
//	component := registry.NewComponent(registry.ComponentSpec{
//	    URL:       "https://github.com/fortra/impacket.git",
//	    Type:      config.ComponentTypeGit,
//	    Path:      path,
//	    Placement: registry.Placement{Category: "recon", Subfolder: true},
//	})
//	err := reg.Add("impacket", "recon", component)
//
// # Test Utilities
//
// NewTestDocument builds documents for tests using the options pattern:
//
//	doc := registry.NewTestDocument(
//	    registry.WithDefaultPath("/opt/tools"),
//	    registry.WithComponent("recon", "impacket", registry.GitComponent("https://github.com/fortra/impacket.git")),
//	)
package registry
