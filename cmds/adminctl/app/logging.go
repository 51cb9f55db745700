package app

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("admin/cli", "admin command line client")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
