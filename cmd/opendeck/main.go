// Package main is the entry point for the opendeck CLI
package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dolsoidduk/OpenDeck/pkg/api"
	"github.com/dolsoidduk/OpenDeck/pkg/buttons"
	"github.com/dolsoidduk/OpenDeck/pkg/device"
	"github.com/dolsoidduk/OpenDeck/pkg/midiout"
	"github.com/dolsoidduk/OpenDeck/pkg/sysconfig"
	"github.com/dolsoidduk/OpenDeck/pkg/sysexconf"
	"github.com/dolsoidduk/OpenDeck/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configFile  string
	debug       bool
	digital     int
	analog      int
	touchscreen int
	presets     int

	recordFile string
	portName   string
	serverPort int

	outputFile string
	bankButton int
	bankChan   int
	bank       int
	bankMSB    int
	bankLSB    int
	bankPC     int

	configPreset int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "opendeck",
	Short: "Drive and configure a virtual OpenDeck button engine",
	Long: `opendeck runs the OpenDeck button engine on the host. Button
transitions are replayed from scripts, a terminal panel or the REST API and
the resulting MIDI can be printed, recorded or sent to a MIDI port.

Examples:
  opendeck run performance.yaml --record out.mid
  opendeck config get message_type 3 --config presets.yaml
  opendeck config set channel 3 10 --config presets.yaml --preset 1
  opendeck bankpc --button 4 --channel 1 --bank 2 --pc 10 -o bank.syx
  opendeck tui
  opendeck serve --port 8080`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run <script.yaml>",
	Short: "Replay a script of button transitions",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read or write button configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get <section> <index>",
	Short: "Read a button configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <section> <index> <value>",
	Short: "Write a button configuration value into the --config preset file",
	Long: `Applies the write to a device loaded from the --config preset file and,
once the device accepts it, stores the value in that file. The file is
created if it does not exist. SysEx sections are edited through the sysex
list of the button in the file.`,
	Args:  cobra.ExactArgs(3),
	RunE:  runConfigSet,
}

var bankPCCmd = &cobra.Command{
	Use:   "bankpc",
	Short: "Build SysExConf requests for a bank select + program change button",
	RunE:  runBankPC,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the virtual button panel",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI output ports",
	RunE:  runPorts,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Preset YAML file to load")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().IntVar(&digital, "digital", 16, "Number of digital buttons")
	rootCmd.PersistentFlags().IntVar(&analog, "analog", 8, "Number of analog buttons")
	rootCmd.PersistentFlags().IntVar(&touchscreen, "touchscreen", 8, "Number of touchscreen buttons")
	rootCmd.PersistentFlags().IntVar(&presets, "presets", 4, "Number of presets")

	// config command
	configCmd.PersistentFlags().IntVar(&configPreset, "preset", 0, "Preset to read or write")

	// run command
	runCmd.Flags().StringVarP(&recordFile, "record", "r", "", "Record emitted MIDI to a .mid file")
	runCmd.Flags().StringVarP(&portName, "port", "p", "", "Send emitted MIDI to an output port")

	// bankpc command
	bankPCCmd.Flags().IntVar(&bankButton, "button", 0, "Button index")
	bankPCCmd.Flags().IntVar(&bankChan, "channel", 1, "MIDI channel (1-16)")
	bankPCCmd.Flags().IntVar(&bank, "bank", 0, "14-bit bank number")
	bankPCCmd.Flags().IntVar(&bankMSB, "msb", 0, "Bank select MSB (CC 0)")
	bankPCCmd.Flags().IntVar(&bankLSB, "lsb", 0, "Bank select LSB (CC 32)")
	bankPCCmd.Flags().IntVar(&bankPC, "pc", 0, "Program number (0-127)")
	bankPCCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .syx file path (hex to stdout if empty)")
	bankPCCmd.MarkFlagsMutuallyExclusive("bank", "msb")
	bankPCCmd.MarkFlagsMutuallyExclusive("bank", "lsb")

	// serve command
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	// Add commands
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(bankPCCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(portsCmd)
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newLayoutDevice(logger *slog.Logger) (*device.Device, error) {
	if digital < 0 || analog < 0 || touchscreen < 0 || presets < 1 {
		return nil, fmt.Errorf("invalid layout")
	}

	opts := device.DefaultOptions()
	opts.Layout = buttons.Layout{Digital: digital, Analog: analog, Touchscreen: touchscreen}
	opts.Presets = presets
	opts.Logger = logger

	return device.New(opts), nil
}

func newDevice(logger *slog.Logger) (*device.Device, error) {
	dev, err := newLayoutDevice(logger)
	if err != nil {
		return nil, err
	}

	if configFile != "" {
		if err := dev.LoadPresetFile(configFile); err != nil {
			return nil, err
		}
	}
	return dev, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	script, err := loadScript(args[0])
	if err != nil {
		return err
	}

	dev, err := newDevice(logger)
	if err != nil {
		return err
	}

	var recorder *midiout.Recorder
	if recordFile != "" {
		recorder = midiout.NewRecorder(script.BPM)
	}

	var port *midiout.Port
	if portName != "" {
		port, err = midiout.OpenPort(portName, logger)
		if err != nil {
			return err
		}
		defer port.Close()
	}

	var at time.Duration
	out := cmd.OutOrStdout()

	dev.Subscribe(func(e device.Entry) {
		fmt.Fprintf(out, "%10s  %s\n", at, formatEntry(e))

		if recorder != nil {
			recorder.RecordAt(at, e.Event)
		}
		if port != nil {
			if err := port.Send(e.Event); err != nil {
				logger.Warn("opendeck: send failed", "error", err)
			}
		}
	})

	if err := runScript(dev, script, func(pos time.Duration) {
		if port != nil && pos > at {
			time.Sleep(pos - at)
		}
		at = pos
	}); err != nil {
		return err
	}

	if recorder != nil {
		if err := recorder.WriteFile(recordFile); err != nil {
			return err
		}
		fmt.Fprintf(out, "Recorded %d events -> %s\n", recorder.Len(), recordFile)
	}

	return nil
}

func configArgs(args []string) (sysconfig.Section, int, error) {
	section, ok := sysconfig.ParseSection(args[0])
	if !ok {
		return 0, 0, fmt.Errorf("unknown section %q", args[0])
	}

	index, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid index %q", args[1])
	}

	return section, index, nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	section, index, err := configArgs(args)
	if err != nil {
		return err
	}

	dev, err := newDevice(newLogger())
	if err != nil {
		return err
	}
	if err := dev.SetPreset(configPreset); err != nil {
		return err
	}

	value, status := dev.ConfigGet(section, index)
	if status != sysconfig.StatusAck {
		return fmt.Errorf("%s[%d]: %s", section, index, status)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s[%d] = %d\n", section, index, value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	section, index, err := configArgs(args)
	if err != nil {
		return err
	}

	value, err := strconv.ParseUint(args[2], 10, 16)
	if err != nil {
		return fmt.Errorf("invalid value %q", args[2])
	}

	if configFile == "" {
		return fmt.Errorf("config set needs --config to store the value")
	}

	file, err := device.ReadPresetFile(configFile)
	if err != nil {
		return err
	}

	if err := setConfigValue(file, newLogger(), section, index, int(value)); err != nil {
		return err
	}

	if err := file.WriteFile(configFile); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s[%d] <- %d: saved to %s (preset %d)\n", section, index, value, configFile, configPreset)
	return nil
}

// setConfigValue checks the write against a device built from the file
// and records it in the file
func setConfigValue(file *device.PresetFile, logger *slog.Logger, section sysconfig.Section, index, value int) error {
	if err := file.SetButton(configPreset, index, section, value); err != nil {
		return err
	}

	doc, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to encode presets: %w", err)
	}

	dev, err := newLayoutDevice(logger)
	if err != nil {
		return err
	}
	if err := dev.LoadPresets(bytes.NewReader(doc)); err != nil {
		return err
	}
	if err := dev.SetPreset(configPreset); err != nil {
		return err
	}

	got, status := dev.ConfigGet(section, index)
	if status != sysconfig.StatusAck || int(got) != value {
		return fmt.Errorf("write rejected: %s[%d] = %d (%s)", section, index, got, status)
	}
	return nil
}

func runBankPC(cmd *cobra.Command, args []string) error {
	bp := sysexconf.BankProgram{
		Button:  bankButton,
		Channel: bankChan,
		Program: bankPC,
		Bank:    bank,
	}

	if cmd.Flags().Changed("msb") || cmd.Flags().Changed("lsb") {
		b, err := sysexconf.BankFromMSBLSB(bankMSB, bankLSB)
		if err != nil {
			return err
		}
		bp.Bank = b
	}

	frames, err := bp.Requests()
	if err != nil {
		return err
	}

	if outputFile == "" {
		for _, frame := range frames {
			fmt.Fprintf(cmd.OutOrStdout(), "% X\n", frame)
		}
		return nil
	}

	var buf bytes.Buffer
	if _, err := sysexconf.WriteSyx(&buf, frames); err != nil {
		return err
	}
	if err := os.WriteFile(outputFile, buf.Bytes(), 0644); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d requests -> %s\n", len(frames), outputFile)
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Logging would draw over the panel
	dev, err := newDevice(slog.New(slog.DiscardHandler))
	if err != nil {
		return err
	}
	return tui.Run(dev)
}

func runServe(cmd *cobra.Command, args []string) error {
	dev, err := newDevice(newLogger())
	if err != nil {
		return err
	}

	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(dev, serverPort)
}

func runPorts(cmd *cobra.Command, args []string) error {
	ports, err := midiout.ListPorts()
	if err != nil {
		return err
	}

	if len(ports) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No MIDI output ports")
		return nil
	}
	for i, name := range ports {
		fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", i, name)
	}
	return nil
}
