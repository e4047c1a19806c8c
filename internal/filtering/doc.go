// Package filtering selects components by name and type.
//
// Name filtering uses glob patterns (gobwas/glob, case-insensitive) with include
// and exclude lists:
//
//   - "impacket*" matches "impacket", "impacket-scripts"
//   - "db?" matches "db1", "db2" but not "database"
//
// Type filtering matches component types exactly (git, gitrelease, urlfile, pip).
//
// Both filters follow the same precedence rules:
//
//  1. If exclude patterns/types are specified and match -> exclude (precedence)
//  2. If include patterns/types are specified and match -> include
//  3. If include patterns/types are specified but no match -> exclude
//  4. If only exclude patterns/types specified and no match -> include
//  5. If no filters specified -> include (default behavior)
//
// A component must pass both filters to be selected.
package filtering
