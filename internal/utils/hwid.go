package utils

import (
	"github.com/denisbrodbeck/machineid"
)

// HWID is a stable, app-scoped machine identifier sent with API requests so
// the server can tell sync clients apart.
var HWID = resolveHWID()

func resolveHWID() string {
	id, err := machineid.ProtectedID("khoj-sync")
	if err != nil {
		return "unknown"
	}
	return id
}
