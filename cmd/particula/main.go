package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ayusman/particula/internal/config"
)

var CLI struct {
	ConfigFile string `name:"config" help:"Configuration file (default: ./particula.yaml or the user config dir)." short:"c" type:"path"`
	Debug      bool   `help:"Whether to enable debug logging."`

	Run struct {
		Addr      string `help:"HTTP listen address."`
		Camera    *int   `help:"Camera device index; negative disables hand tracking."`
		NoTray    bool   `help:"Do not show the system tray."`
		Headless  bool   `help:"No tray and no camera."`
		Particles int    `help:"Number of particles."`
	} `cmd:"" default:"1" help:"Start the particle display."`

	Config struct {
		Defaults bool `help:"Print the built-in defaults instead of the effective configuration."`
	} `cmd:"" help:"Write the configuration to standard output."`

	Formations struct{} `cmd:"" help:"List the formation catalogue."`

	Sessions struct {
		Limit int `help:"How many sessions to show." default:"10"`
	} `cmd:"" help:"List recent journal sessions."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("particula"),
		kong.Description("a gesture-steered particle display"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	overrides := config.Overrides{
		Debug:     CLI.Debug,
		Addr:      CLI.Run.Addr,
		Camera:    CLI.Run.Camera,
		NoTray:    CLI.Run.NoTray,
		Headless:  CLI.Run.Headless,
		Particles: CLI.Run.Particles,
	}

	var err error
	switch ctx.Command() {
	case "run":
		err = runCommand(CLI.ConfigFile, overrides)
	case "config":
		err = configCommand(CLI.ConfigFile, CLI.Config.Defaults)
	case "formations":
		err = formationsCommand(CLI.ConfigFile)
	case "sessions":
		err = sessionsCommand(CLI.ConfigFile, CLI.Sessions.Limit)
	}
	if err != nil {
		writeError(err)
	}
}
