package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ewilliams-labs/musicdna/internal/core/analysis"
	"github.com/ewilliams-labs/musicdna/internal/core/domain"
)

var errFeaturesUnavailable = errors.New("export has no audio features")

// listeningExport is a captured listening history. A missing audioFeatures
// key means the features were unavailable, not that there were none.
type listeningExport struct {
	Artists       []domain.Artist         `json:"artists"`
	Tracks        []domain.Track          `json:"tracks"`
	AudioFeatures *[]domain.FeatureSample `json:"audioFeatures"`
}

func newAnalyzeCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "analyze <export.json>",
		Short: "Builds a profile offline from a listening export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readExport(args[0])
			if err != nil {
				return err
			}
			dna, source := analysis.BuildDNA(in)
			return writeProfile(cmd.OutOrStdout(), format, dna, source)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json or yaml")
	return cmd
}

func readExport(path string) (analysis.Listening, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return analysis.Listening{}, fmt.Errorf("analyze: %w", err)
	}

	var export listeningExport
	if err := json.Unmarshal(data, &export); err != nil {
		return analysis.Listening{}, fmt.Errorf("analyze: invalid export %s: %w", path, err)
	}

	for i := range export.Artists {
		if export.Artists[i].Genres == nil {
			export.Artists[i].Genres = []string{}
		}
	}

	in := analysis.Listening{
		Artists: export.Artists,
		Tracks:  export.Tracks,
	}
	if export.AudioFeatures == nil {
		in.FeaturesErr = errFeaturesUnavailable
	} else {
		in.Features = *export.AudioFeatures
	}
	return in, nil
}

func writeProfile(out io.Writer, format string, dna domain.MusicDNA, source domain.FeatureSource) error {
	switch format {
	case "table":
		return renderProfile(out, dna, source)
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(dna)
	case "yaml":
		encoder := yaml.NewEncoder(out)
		defer encoder.Close()
		return encoder.Encode(dna)
	default:
		return fmt.Errorf("analyze: unknown format %q (want table, json or yaml)", format)
	}
}
