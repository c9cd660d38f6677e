package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kalambet/futuresim/internal/complexity"
	"github.com/kalambet/futuresim/internal/profile"
	"github.com/kalambet/futuresim/internal/progress"
	"github.com/kalambet/futuresim/internal/projection"
)

const documentVersion = "1.0"

// Document is the portable data export shared by the JSON and YAML formats.
type Document struct {
	Metadata     Metadata              `json:"metadata"`
	UserData     profile.UserProfile   `json:"userData"`
	FutureData   projection.Projection `json:"futureData"`
	ProgressData *progress.Snapshot    `json:"progressData,omitempty"`
	Insights     []complexity.Insight  `json:"insights,omitempty"`
	ExportInfo   ExportInfo            `json:"exportInfo"`
}

type Metadata struct {
	Version    string `json:"version"`
	ExportedAt string `json:"exportedAt"`
	Source     string `json:"source"`
	Format     string `json:"format"`
}

type ExportInfo struct {
	TotalMilestones int    `json:"totalMilestones"`
	FutureScore     int    `json:"futureScore"`
	ExportDate      string `json:"exportDate"`
}

func newDocument(in Input, format string) Document {
	return Document{
		Metadata: Metadata{
			Version:    documentVersion,
			ExportedAt: in.ExportedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			Source:     "AI Future Simulator",
			Format:     format,
		},
		UserData:     in.Profile,
		FutureData:   in.Projection,
		ProgressData: in.Progress,
		Insights:     in.Insights,
		ExportInfo: ExportInfo{
			TotalMilestones: len(in.Projection.Timeline),
			FutureScore:     in.Projection.Score,
			ExportDate:      in.ExportedAt.Format("2006-01-02"),
		},
	}
}

func renderJSON(in Input) ([]byte, error) {
	return json.MarshalIndent(newDocument(in, FormatJSON), "", "  ")
}

// renderYAML goes through JSON so the YAML keys match the JSON field names
// and keep their declaration order.
func renderYAML(in Input) ([]byte, error) {
	data, err := json.Marshal(newDocument(in, FormatYAML))
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	blockStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// blockStyle drops the flow and quoting styles JSON input carries.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
