package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/factsift/factsift/config"
	"github.com/factsift/factsift/internal/credibility"
	srv "github.com/factsift/factsift/internal/server"
)

func verifyCMD() *cobra.Command {
	var cfgPath string
	var threshold float64
	var daysBack int
	var verify = &cobra.Command{
		Use:   "verify [topic]",
		Short: "Verify a topic against news and social sources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			engine := srv.BuildEngine(cfg, nil, nil)
			result := engine.VerifyTopic(cmd.Context(), args[0], credibility.VerifyOptions{
				SimilarityThreshold: threshold,
				DaysBack:            daysBack,
			})
			return printJSON(result)
		},
	}
	verify.Flags().Float64Var(&threshold, "threshold", 0, "similarity threshold (0 = configured default)")
	verify.Flags().IntVar(&daysBack, "days-back", 0, "restrict news search to the last N days")
	verify.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return verify
}

func analyzeCMD() *cobra.Command {
	var cfgPath string
	var textFile string
	var analyze = &cobra.Command{
		Use:   "analyze [topic]",
		Short: "Assess article credibility for a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			var text string
			if textFile != "" {
				raw, err := os.ReadFile(textFile)
				if err != nil {
					return fmt.Errorf("read text file: %w", err)
				}
				text = string(raw)
			}
			engine := srv.BuildEngine(cfg, nil, nil)
			assessment := engine.AnalyzeCredibility(cmd.Context(), text, args[0])
			return printJSON(assessment)
		},
	}
	analyze.Flags().StringVar(&textFile, "text-file", "", "file containing the article text")
	analyze.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return analyze
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
