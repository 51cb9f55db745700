package fakeapi

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("admin/fakeapi", "fake admin api backend")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
