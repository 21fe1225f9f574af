// Command gbcore is a headless runner: it loads a ROM (and optional
// save), runs it for a fixed number of frames, and writes SRAM back out
// on exit. It never touches a window, an audio device, or a terminal
// UI.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/dsanders/gbcore/machine"
)

func main() {
	app := cli.NewApp()
	app.Name = "gbcore"
	app.Usage = "gbcore [options] <ROM file>"
	app.Description = "Headless runner for the gbcore machine-cycle-accurate console core"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "path to the ROM file",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "number of frames to run",
			Value: 60,
		},
		cli.StringFlag{
			Name:  "save",
			Usage: "path to read/write the cartridge's battery-backed save (defaults to <rom>.sav)",
		},
		cli.BoolFlag{
			Name:  "color",
			Usage: "force color-model (CGB) extensions on, even for a monochrome-only cartridge",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("gbcore: run failed", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	frames := c.Int("frames")
	if frames <= 0 {
		return errors.New("--frames must be a positive value")
	}

	savePath := c.String("save")
	if savePath == "" {
		savePath = romPath + ".sav"
	}

	rom, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}

	var save []byte
	if data, err := os.ReadFile(savePath); err == nil {
		save = data
		slog.Info("loaded save", "path", savePath, "bytes", len(save))
	}

	m, err := machine.NewWithROM(rom, save, c.Bool("color"))
	if err != nil {
		return fmt.Errorf("loading cartridge: %w", err)
	}

	slog.Info("running", "rom", romPath, "frames", frames)
	m.RunFrames(frames)

	if fault := m.Fault(); fault != nil {
		return fmt.Errorf("machine faulted: %w", fault)
	}

	slog.Info("run complete", "frames", m.FrameCount(), "mcycles", m.InstructionCount())

	if sram := m.SRAM(); len(sram) > 0 {
		if err := os.WriteFile(savePath, sram, 0o644); err != nil {
			return fmt.Errorf("writing save: %w", err)
		}
		slog.Info("wrote save", "path", savePath, "bytes", len(sram))
	}

	return nil
}
