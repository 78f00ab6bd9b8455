package handlers

import _ "embed"

//go:embed scripts/wp_provision.sh
var ProvisionScript string

//go:embed scripts/wp_reset.sh
var ResetScript string
