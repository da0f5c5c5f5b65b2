package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/user-none/joustcore/disasm"
	"github.com/user-none/joustcore/machine"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "joustcorectl",
		Short: "Inspect and drive a Joust board emulation core",
	}

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cobra.OnInitialize(func() {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = log.Logger.Level(level)
	})

	var romPath string
	var frames int

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Load a ROM image and run it for a number of frames",
		RunE: func(cmd *cobra.Command, args []string) error {
			rom, err := os.ReadFile(romPath)
			if err != nil {
				return fmt.Errorf("reading ROM: %w", err)
			}

			bd := machine.New()
			if err := bd.LoadROM(rom); err != nil {
				return fmt.Errorf("loading ROM: %w", err)
			}
			bd.Reset()

			for i := 0; i < frames; i++ {
				bd.TickFrame()
			}
			fmt.Printf("ran %d frames, %d CPU cycles\n", frames, bd.CPU.Cycles())
			return nil
		},
	}
	runCmd.Flags().StringVar(&romPath, "rom", "", "Path to the masked-ROM image")
	runCmd.Flags().IntVar(&frames, "frames", 60, "Number of frames to run")
	_ = runCmd.MarkFlagRequired("rom")

	var disasmPath string
	var disasmAddr uint16
	var disasmCount int

	disasmCmd := &cobra.Command{
		Use:   "disasm",
		Short: "Disassemble a flat binary image starting at an address",
		RunE: func(cmd *cobra.Command, args []string) error {
			mem, err := os.ReadFile(disasmPath)
			if err != nil {
				return fmt.Errorf("reading image: %w", err)
			}
			for _, ins := range disasm.DecodeRange(mem, disasmAddr, disasmCount) {
				fmt.Printf("%04X  %-10s %s\n", ins.Addr, hexBytes(ins.Bytes), ins.Text)
			}
			return nil
		},
	}
	disasmCmd.Flags().StringVar(&disasmPath, "image", "", "Path to a flat binary image")
	disasmCmd.Flags().Uint16Var(&disasmAddr, "addr", 0, "Starting address")
	disasmCmd.Flags().IntVar(&disasmCount, "count", 32, "Number of instructions to decode")
	_ = disasmCmd.MarkFlagRequired("image")

	rootCmd.AddCommand(runCmd, disasmCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func hexBytes(b []byte) string {
	s := ""
	for _, v := range b {
		s += fmt.Sprintf("%02X ", v)
	}
	return s
}
