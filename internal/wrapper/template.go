package wrapper

import _ "embed"

// driverTemplate is the shell-harness skeleton jsharness.go fills in:
// instantiation boilerplate plus a standalone xxHash32, so the generated
// driver needs nothing preloaded by the JS shell beyond `print`.
//
//go:embed template.js
var driverTemplate string
