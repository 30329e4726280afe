package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/ewilliams-labs/musicdna/internal/adapters/sqlite"
	"github.com/ewilliams-labs/musicdna/internal/core/domain"
)

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func renderProfile(out io.Writer, dna domain.MusicDNA, source domain.FeatureSource) error {
	fmt.Fprintf(out, "%s\n%s\n\n", dna.PersonalityLabel, dna.PersonalityDescription)

	f := dna.AudioFeatures
	table := tablewriter.NewWriter(out)
	table.Header([]string{"Feature", "Score"})
	rows := [][]string{
		{"Danceability", formatScore(f.Danceability)},
		{"Energy", formatScore(f.Energy)},
		{"Valence", formatScore(f.Valence)},
		{"Acousticness", formatScore(f.Acousticness)},
		{"Instrumentalness", formatScore(f.Instrumentalness)},
		{"Speechiness", formatScore(f.Speechiness)},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nFeatures: %s\n", source)
	fmt.Fprintf(out, "Top genres: %s\n", strings.Join(dna.TopGenres, ", "))
	if dna.ObscureArtist != nil {
		fmt.Fprintf(out, "Most obscure artist: %s (popularity %d)\n", dna.ObscureArtist.Name, dna.ObscureArtist.Popularity)
	}
	return nil
}

func renderSnapshots(out io.Writer, snapshots []domain.Snapshot) error {
	if len(snapshots) == 0 {
		fmt.Fprintln(out, "No snapshots yet.")
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header([]string{"ID", "Created", "Personality", "Features", "Top Genre"})
	for _, s := range snapshots {
		topGenre := ""
		if len(s.DNA.TopGenres) > 0 {
			topGenre = s.DNA.TopGenres[0]
		}
		if err := table.Append([]string{
			s.ID,
			s.CreatedAt.Local().Format(time.DateTime),
			s.DNA.PersonalityLabel,
			string(s.Source),
			topGenre,
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderGenreCounts(out io.Writer, counts []sqlite.GenreCount) error {
	if len(counts) == 0 {
		fmt.Fprintln(out, "No snapshots yet.")
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header([]string{"Genre", "Snapshots"})
	for _, c := range counts {
		if err := table.Append([]string{c.Genre, strconv.Itoa(c.Count)}); err != nil {
			return err
		}
	}
	return table.Render()
}
