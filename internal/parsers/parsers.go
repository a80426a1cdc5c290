// Package parsers imports all roster parser packages to trigger their init()
// registration. Import this package for side effects only.
package parsers

import (
	// Import all parser packages to register them with the registry.
	_ "ftl_checker/internal/parsers/calendargrid"
	_ "ftl_checker/internal/parsers/linefmt"
)
