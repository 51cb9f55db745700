package watch

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("admin/watch", "record change notification")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
