// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/pdiddy/intel-engine/pkg/types"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the registered intelligence sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		httpCfg := types.HTTPConfig{Timeout: defaultHTTPTimeout, UserAgent: defaultUserAgent}
		reg, err := buildRegistry(&http.Client{Timeout: httpCfg.Timeout}, httpCfg)
		if err != nil {
			return err
		}
		for _, a := range reg.List() {
			fmt.Printf("%-12s %s\n", a.Name(), a.Domain())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
