package main

import (
	"fmt"
	"log"
	"os"

	"github.com/samber/do"

	"github.com/seitarof/gen-derive/internal/cli"
)

var version = "dev"

func main() {
	cfg, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if cfg.ShowVersion {
		fmt.Println(version)
		return
	}

	runner := do.MustInvoke[cli.Runner](cli.NewInjector(cfg))
	if err := runner.Run(cfg); err != nil {
		log.Fatal(err)
	}
}
