package screen

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("admin/screen", "admin list screens")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
