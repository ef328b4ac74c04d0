package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/tada/internal/cli"
)

func main() {
	// Root flags (apply to every subcommand)
	groupPending := flag.Bool("group", false, "group ls output by pending/done")
	server := flag.String("server", "", "backend base URL (overrides TADA_SERVER and the config file)")
	configPath := flag.String("config", "", "config file (default ~/.tada/config.yaml)")
	theme := flag.String("theme", "", "classic | neon | mono")
	flag.Usage = func() { cli.PrintHelp(os.Stderr) }
	flag.Parse()

	// Hand the remaining args to the CLI runner; none means the interactive list.
	code := cli.Run(flag.Args(), cli.Options{
		Group:          *groupPending,
		Server:         *server,
		Theme:          *theme,
		ConfigPath:     *configPath,
		ConfigRequired: *configPath != "",
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
