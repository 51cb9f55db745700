package client

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("admin/client", "admin api client")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
