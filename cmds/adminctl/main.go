package main

import (
	"fmt"
	"os"

	"github.com/mandelsoft/admin/cmds/adminctl/app"
	"github.com/mandelsoft/admin/pkg/apierror"
)

func main() {
	cmd := app.New()
	cmd.SetArgs(os.Args[1:])
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", apierror.Message(err))
		os.Exit(1)
	}
}
