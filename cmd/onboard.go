package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/higenie/higenie/config"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Create the higenie configuration",
	Long:  `Create the higenie configuration directory and config file interactively.`,
	RunE:  runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

func runOnboard(_ *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("Config already exists at:", configPath)
		fmt.Println("To reconfigure, edit the file directly or delete it first.")
		return nil
	}

	// --- interactive wizard ---

	c := config.DefaultConfig()
	var (
		transport = c.Bridge.Transport
		ordering  = c.UI.Ordering
		address   string
		delay     = "0"
		logLevel  = c.Logging.Level
	)

	// Step 1: transport
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How should the form reach the greet command?").
				Options(
					huh.NewOption("In-process (no server needed)", config.TransportLocal),
					huh.NewOption("Unix socket (higenie serve)", config.TransportSocket),
					huh.NewOption("WebSocket (higenie serve --web)", config.TransportWS),
				).
				Value(&transport),
		),
	).Run()
	if err != nil {
		return err
	}

	// Step 2: address for remote transports
	if transport != config.TransportLocal {
		title, def := "Unix socket path", c.Bridge.Socket
		if transport == config.TransportWS {
			title, def = "WebSocket host:port", c.Bridge.WebAddr
		}
		address = def
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title(title).
					Description("Leave as is to use the default: "+def).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("address is required")
						}
						return nil
					}).
					Value(&address),
			),
		).Run()
		if err != nil {
			return err
		}
	}

	// Step 3: behavior
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("When greetings overlap, show...").
				Options(
					huh.NewOption("the answer to the latest submission", config.OrderingLatestIssued),
					huh.NewOption("whichever answer arrives last", config.OrderingLastResolved),
				).
				Value(&ordering),
			huh.NewInput().
				Title("Greeter delay (ms)").
				Description("Artificial latency for the built-in greet handler. 0 disables it.").
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 0 {
						return fmt.Errorf("enter a non-negative number")
					}
					return nil
				}).
				Value(&delay),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&logLevel),
		),
	).Run()
	if err != nil {
		return err
	}

	c.Bridge.Transport = transport
	switch transport {
	case config.TransportSocket:
		c.Bridge.Socket = strings.TrimSpace(address)
	case config.TransportWS:
		c.Bridge.WebAddr = strings.TrimSpace(address)
	}
	c.UI.Ordering = ordering
	c.Greeter.DelayMs, _ = strconv.Atoi(strings.TrimSpace(delay))
	c.Logging.Level = logLevel

	if err := c.SaveFile(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("Config saved to:", configPath)
	if transport != config.TransportLocal {
		fmt.Println("Start the backend with: higenie serve")
	}
	fmt.Println("Open the form with:     higenie")
	return nil
}
