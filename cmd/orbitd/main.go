package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/helioslab/orbitd/pkg/server"
	"github.com/helioslab/orbitd/pkg/universe"
	"github.com/helioslab/orbitd/pkg/utils"

	"time"
)

const (
	appName = "orbitd"
	version = "v1.0.0"
)

var (
	cfgFile string
	cfg     *utils.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Orbital mechanics simulation server",
	Long: `orbitd runs a solar system simulation with a fixed-step gravitational
integrator and serves live state snapshots to rendering clients over
WebSocket. Clients can adjust the simulation speed, spawn spacecraft on
randomized orbits and fire their thrusters.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = utils.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

// initCmd writes a default configuration file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			var err error
			path, err = utils.GetConfigPath()
			if err != nil {
				return fmt.Errorf("failed to resolve config path: %w", err)
			}
		}
		if err := utils.SaveConfig(utils.DefaultConfig(), path); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Printf("Wrote default configuration to %s\n", path)
		return nil
	},
}

// serveCmd runs the simulation and the WebSocket endpoint
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the simulation and serve snapshots over WebSocket",
	RunE: func(cmd *cobra.Command, args []string) error {
		uni := universe.NewSolarSystem(cfg.Sim.TimeScale, cfg.Sim.Seed)
		hub := server.New(uni, time.Duration(cfg.Server.TickMillis)*time.Millisecond)
		go hub.Run(context.Background())

		mux := http.NewServeMux()
		mux.HandleFunc("/ws", hub.HandleWS)

		log.Printf("%s %s listening on %s (time scale %g, tick %dms)",
			appName, version, cfg.Server.Listen, cfg.Sim.TimeScale, cfg.Server.TickMillis)
		return http.ListenAndServe(cfg.Server.Listen, mux)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.orbitd/config.yaml)")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
