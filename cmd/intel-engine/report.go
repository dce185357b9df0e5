// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/intel-engine/internal/store"
	"github.com/pdiddy/intel-engine/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Browse saved intelligence reports",
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.ListRuns(cmd.Context())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no saved runs")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RUN\tBUSINESS\tCONNECTIONS\tDATAPOINTS\tEQ\tDEGRADED\tGENERATED")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1f\t%v\t%s\n",
				r.ID, r.Business, r.Connections, r.DataPoints, r.EQScore,
				r.Degraded, r.GeneratedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var reportShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print one saved run as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		run, err := s.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(run)
		if err != nil {
			return fmt.Errorf("marshaling run: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

var reportExportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export one saved run to a YAML file in the results directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		path, err := s.ExportYAML(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dir, _ := cmd.Flags().GetString("results-dir")
	return store.NewStore(types.StoreConfig{Dir: dir})
}

func init() {
	reportCmd.PersistentFlags().String("results-dir", defaultResultsDir, "results store directory")
	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportShowCmd)
	reportCmd.AddCommand(reportExportCmd)
	rootCmd.AddCommand(reportCmd)
}
