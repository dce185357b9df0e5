// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/intel-engine/internal/embed"
	"github.com/pdiddy/intel-engine/internal/intel"
	"github.com/pdiddy/intel-engine/internal/sources"
	"github.com/pdiddy/intel-engine/internal/store"
	"github.com/pdiddy/intel-engine/pkg/types"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	defaultUserAgent   = "intel-engine/0.1"
	defaultResultsDir  = "results"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full intelligence collection and discovery pass",
	Long: `Run fans the business query out to every registered source concurrently,
embeds and clusters the collected datapoints, discovers scored cross-source
connections, and computes the emotional-intensity profile. The report is
written to stdout as YAML (or JSON with --json) and optionally persisted
with --save.`,
	RunE: runIntelligence,
}

func init() {
	runCmd.Flags().String("business", "", "business name to collect intelligence for (required)")
	runCmd.Flags().String("location", "", "geographic context, e.g. \"Portland, OR\"")
	runCmd.Flags().String("classification", "", "industry code for emotional calibration, e.g. restaurant")
	runCmd.Flags().StringSlice("keywords", nil, "extra query keywords")

	runCmd.Flags().Duration("per-source-timeout", 0, "timeout per source fetch (default 10s)")
	runCmd.Flags().Duration("global-deadline", 0, "total collection deadline (default 45s)")
	runCmd.Flags().Int("max-concurrent", 0, "maximum simultaneous source fetches (default 8)")
	runCmd.Flags().Int("min-viable", 0, "successful sources required for a non-degraded run (default 8)")
	runCmd.Flags().Duration("cache-ttl", 0, "source cache entry lifetime (default 6h)")

	runCmd.Flags().String("embedding-url", "", "embedding provider endpoint")
	runCmd.Flags().String("embedding-model", "", "embedding model identifier")
	runCmd.Flags().Int("dimensions", 0, "expected embedding width (default 256)")

	runCmd.Flags().Int("clusters", 0, "cluster count k (default: derived from input size)")
	runCmd.Flags().Int64("seed", 0, "clustering seed (default 42)")

	runCmd.Flags().Bool("json", false, "output the report as JSON instead of YAML")
	runCmd.Flags().Bool("save", false, "persist the report to the results store")
	runCmd.Flags().String("results-dir", defaultResultsDir, "results store directory")
	runCmd.Flags().Bool("verbose", false, "verbose logging")

	rootCmd.AddCommand(runCmd)
}

// buildRegistry wires the bundled source adapters. API-keyed sources read
// their keys from .secrets/ with config-file overrides.
func buildRegistry(client *http.Client, httpCfg types.HTTPConfig) (*sources.Registry, error) {
	reg := sources.NewRegistry()
	adapters := []sources.Adapter{
		&sources.ReviewsAdapter{Client: client, Config: httpCfg},
		&sources.TrendsAdapter{Client: client, Config: httpCfg},
		&sources.NewsAdapter{
			Client: client,
			Config: httpCfg,
			APIKey: secretDefault("newsapi-key", viper.GetString("sources.news_api_key")),
		},
		&sources.SEOGapAdapter{
			Client: client,
			Config: httpCfg,
			APIKey: secretDefault("seo-api-key", viper.GetString("sources.seo_api_key")),
		},
	}
	for _, a := range adapters {
		if err := reg.Register(a); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func runIntelligence(cmd *cobra.Command, args []string) error {
	business, _ := cmd.Flags().GetString("business")
	if business == "" {
		return fmt.Errorf("--business is required")
	}
	location, _ := cmd.Flags().GetString("location")
	classification, _ := cmd.Flags().GetString("classification")
	keywords, _ := cmd.Flags().GetStringSlice("keywords")

	perSourceTimeout, _ := cmd.Flags().GetDuration("per-source-timeout")
	globalDeadline, _ := cmd.Flags().GetDuration("global-deadline")
	maxConcurrent, _ := cmd.Flags().GetInt("max-concurrent")
	minViable, _ := cmd.Flags().GetInt("min-viable")
	cacheTTL, _ := cmd.Flags().GetDuration("cache-ttl")
	embeddingURL, _ := cmd.Flags().GetString("embedding-url")
	embeddingModel, _ := cmd.Flags().GetString("embedding-model")
	dimensions, _ := cmd.Flags().GetInt("dimensions")
	k, _ := cmd.Flags().GetInt("clusters")
	seed, _ := cmd.Flags().GetInt64("seed")
	asJSON, _ := cmd.Flags().GetBool("json")
	save, _ := cmd.Flags().GetBool("save")
	resultsDir, _ := cmd.Flags().GetString("results-dir")
	verbose, _ := cmd.Flags().GetBool("verbose")

	log, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	httpCfg := types.HTTPConfig{Timeout: defaultHTTPTimeout, UserAgent: defaultUserAgent}
	client := &http.Client{Timeout: httpCfg.Timeout}

	reg, err := buildRegistry(client, httpCfg)
	if err != nil {
		return err
	}

	cfg := types.EngineConfig{
		Orchestrator: types.OrchestratorConfig{
			PerSourceTimeout: perSourceTimeout,
			GlobalDeadline:   globalDeadline,
			MaxConcurrent:    maxConcurrent,
			MinViable:        minViable,
		},
		Cache: types.CacheConfig{TTL: cacheTTL},
		Embedding: types.EmbeddingConfig{
			HTTPConfig: httpCfg,
			BaseURL:    embeddingURL,
			APIKey:     secretDefault("embedding-api-key", viper.GetString("embedding.api_key")),
			Model:      embeddingModel,
			Dimensions: dimensions,
		},
		Clustering: types.ClusteringConfig{K: k, Seed: seed},
		Discovery:  types.DiscoveryConfig{Weights: types.DefaultScoringWeights()},
	}

	engine, err := intel.New(reg, embed.NewHTTPProvider(cfg.Embedding), cfg, log)
	if err != nil {
		return err
	}

	report, err := engine.Run(cmd.Context(), intel.BusinessContext{
		Name:           business,
		Location:       location,
		Classification: classification,
		Keywords:       keywords,
	})
	if err != nil {
		return err
	}

	if report.Degraded {
		fmt.Fprintln(os.Stderr, "warning: run is degraded, fewer sources succeeded than the viable minimum")
	}

	var out []byte
	if asJSON {
		out, err = json.MarshalIndent(report, "", "  ")
	} else {
		out, err = yaml.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	fmt.Println(string(out))

	if save {
		s, err := store.NewStore(types.StoreConfig{Dir: resultsDir})
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.SaveReport(cmd.Context(), report); err != nil {
			return fmt.Errorf("saving report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "saved run %s to %s\n", report.RunID, resultsDir)
	}
	return nil
}
