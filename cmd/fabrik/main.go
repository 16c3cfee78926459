package main

import (
	"github.com/fabrikplatform/fabrik/pkg/cli"
	"github.com/spf13/cobra"
)

func main() {
	var root = &cobra.Command{Use: "fabrik"}
	err := cli.AddCli(root)
	if err != nil {
		panic(err)
	}
	err = root.Execute()
	if err != nil {
		panic(err)
	}
}
