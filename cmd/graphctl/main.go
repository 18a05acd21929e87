// Package main provides the graphctl CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orneryd/graphkit/cmd/graphctl/config"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "graphctl",
		Short: "graphctl - command-line companion for the graphkit storage engine",
		Long: `graphctl is a small CLI around graphkit's storage.Storage backends.

It seeds a graph from a YAML file, prints its adjacency list, and
exports it to the Neo4j JSON or CSV formats graphkit's adapter
packages support.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				os.Setenv("GRAPHCTL_CONFIG_FILE", cfgFile)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config overlay")
	rootCmd.PersistentFlags().String("backend", "", "storage backend: memory, concurrent, or badger (overrides GRAPHCTL_BACKEND)")
	rootCmd.PersistentFlags().String("data-dir", "", "data directory for the badger backend (overrides GRAPHCTL_DATA_DIR)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("graphctl v%s (%s)\n", version, commit)
		},
	})

	seedCmd := &cobra.Command{
		Use:   "seed [file]",
		Short: "Create nodes and edges from a YAML seed file",
		Args:  cobra.ExactArgs(1),
		RunE:  runSeedCmd,
	}
	rootCmd.AddCommand(seedCmd)

	adjCmd := &cobra.Command{
		Use:   "adjacency [file]",
		Short: "Seed a graph, then print its adjacency list",
		Args:  cobra.ExactArgs(1),
		RunE:  runAdjacencyCmd,
	}
	rootCmd.AddCommand(adjCmd)

	exportCmd := &cobra.Command{
		Use:   "export [seed-file]",
		Short: "Seed a graph, then export it",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportCmd,
	}
	exportCmd.Flags().String("format", "neo4j", "export format: neo4j or csv")
	exportCmd.Flags().String("out", "-", "output path ('-' for stdout; a directory for csv)")
	rootCmd.AddCommand(exportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the config package's env+YAML config and applies
// any --backend/--data-dir flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.LoadFromEnv()

	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		cfg.Storage.Backend = config.Backend(backend)
	}
	if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
		cfg.Storage.DataDir = dataDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSeedCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	doc, err := loadSeed(args[0])
	if err != nil {
		return err
	}
	s, closeFn, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := runSeedInto(s, doc); err != nil {
		return err
	}
	nodeIDs, _ := s.NodeIDs()
	edgeIDs, _ := s.EdgeIDs()
	fmt.Printf("seeded %d node(s), %d edge(s) into %s backend\n", len(nodeIDs), len(edgeIDs), cfg.Storage.Backend)
	return nil
}

func runAdjacencyCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	doc, err := loadSeed(args[0])
	if err != nil {
		return err
	}
	s, closeFn, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := runSeedInto(s, doc); err != nil {
		return err
	}
	return printAdjacency(os.Stdout, s)
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	doc, err := loadSeed(args[0])
	if err != nil {
		return err
	}
	s, closeFn, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := runSeedInto(s, doc); err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	switch format {
	case "neo4j":
		if out == "-" {
			return runExportNeo4j(os.Stdout, s)
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer f.Close()
		return runExportNeo4j(f, s)
	case "csv":
		dir := out
		if dir == "-" {
			dir = "."
		}
		return runExportCSV(dir, s)
	default:
		return fmt.Errorf("unknown export format %q (want neo4j or csv)", format)
	}
}
